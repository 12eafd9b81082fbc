package kpi

import (
	"sort"
	"time"

	"github.com/alexanderramin/harborguide/internal/window"
)

// Definition names a KPI, the fact-store measure behind it and how it is
// compared.
type Definition struct {
	Name    string
	Label   string
	Measure string
	Unit    string
	Window  window.Kind
}

// DefaultDefinitions is the set of KPIs reported by the service.
func DefaultDefinitions() []Definition {
	return []Definition{
		{Name: "arrival_accuracy", Label: "Arrival accuracy", Measure: "arrival_accuracy_pct", Unit: "%", Window: window.WoW},
		{Name: "within_4h", Label: "Arrivals within 4h", Measure: "within_4h_pct", Unit: "%", Window: window.WoW},
		{Name: "avg_berth_h", Label: "Avg berth time", Measure: "avg_berth_h", Unit: "h", Window: window.WoW},
		{Name: "carbon_tonnes", Label: "Carbon abated", Measure: "carbon_tonnes", Unit: "t", Window: window.MTD},
	}
}

// Entry is one named packet.
type Entry struct {
	Name   string
	Packet Packet
}

// Bundle is the named set of packets for one anchor date.
type Bundle struct {
	AsOf string            `json:"asOf"`
	KPIs map[string]Packet `json:"kpis"`
}

// Assemble combines entries into a bundle. A later entry with a duplicate
// name replaces the earlier one. A zero asOf leaves AsOf empty.
func Assemble(asOf time.Time, entries []Entry) Bundle {
	b := Bundle{KPIs: make(map[string]Packet, len(entries))}
	if !asOf.IsZero() {
		b.AsOf = asOf.Format("2006-01-02")
	}
	for _, e := range entries {
		b.KPIs[e.Name] = e.Packet
	}
	return b
}

// Empty returns a bundle carrying a null packet for every definition.
func Empty(defs []Definition) Bundle {
	entries := make([]Entry, len(defs))
	for i, d := range defs {
		entries[i] = Entry{Name: d.Name, Packet: Package(nil, nil, d.Unit, d.Window)}
	}
	return Assemble(time.Time{}, entries)
}

// Label returns the display label of a default KPI, or name itself.
func Label(name string) string {
	for _, d := range DefaultDefinitions() {
		if d.Name == name && d.Label != "" {
			return d.Label
		}
	}
	return name
}

// Names lists the bundle's KPIs with the default definitions first, in
// definition order, followed by any others sorted by name.
func (b Bundle) Names() []string {
	out := make([]string, 0, len(b.KPIs))
	seen := make(map[string]bool, len(b.KPIs))
	for _, def := range DefaultDefinitions() {
		if _, ok := b.KPIs[def.Name]; ok {
			out = append(out, def.Name)
			seen[def.Name] = true
		}
	}
	var rest []string
	for name := range b.KPIs {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// Only returns a copy of the bundle keeping the KPIs computed over kind.
func (b Bundle) Only(kind window.Kind) Bundle {
	out := Bundle{AsOf: b.AsOf, KPIs: make(map[string]Packet, len(b.KPIs))}
	for name, p := range b.KPIs {
		if p.Window == kind {
			out.KPIs[name] = p
		}
	}
	return out
}
