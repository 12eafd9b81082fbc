package formatter

import (
	"strconv"
	"strings"

	"github.com/alexanderramin/harborguide/internal/kpi"
	"github.com/alexanderramin/harborguide/internal/service"
)

// lowerIsBetter lists KPIs where a decrease is an improvement.
var lowerIsBetter = map[string]bool{
	"avg_berth_h": true,
}

// FormatKPIs renders the KPI snapshot as a table followed by the vessels with
// the largest arrival variance.
func FormatKPIs(snap *service.KPISnapshot) string {
	var b strings.Builder
	b.WriteString(Header("Port KPIs"))
	b.WriteString("\n")

	if snap == nil || snap.AsOf == "" {
		b.WriteString(Dim("No port calls loaded. Import some with: harborguide facts import <file.csv>"))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(Dim("As of " + snap.AsOf))
	b.WriteString("\n\n")

	rows := make([][]string, 0, len(snap.KPIs))
	for _, name := range snap.Names() {
		p := snap.KPIs[name]
		rows = append(rows, []string{
			kpi.Label(name),
			packetValue(p),
			packetDelta(name, p),
			string(p.Window),
		})
	}
	b.WriteString(RenderTable([]string{"KPI", "VALUE", "CHANGE", "WINDOW"}, rows, 1, 2))

	if len(snap.TopVessels) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Top vessels by ETA variance"))
		b.WriteString("\n")
		vrows := make([][]string, 0, len(snap.TopVessels))
		for _, v := range snap.TopVessels {
			vrows = append(vrows, []string{
				v.Vessel,
				kpi.FormatDelta(kpi.Round(v.VarianceH, 2)) + " h",
				strconv.Itoa(v.Calls),
			})
		}
		b.WriteString(RenderTable([]string{"VESSEL", "VARIANCE", "CALLS"}, vrows, 1, 2))
	}
	return b.String()
}

func packetValue(p kpi.Packet) string {
	if p.Value == nil {
		return Dim("n/a")
	}
	return kpi.FormatValue(*p.Value, p.Unit)
}

func packetDelta(name string, p kpi.Packet) string {
	if p.Delta == nil {
		return Dim("--")
	}
	d := *p.Delta
	return DeltaStyle(d, lowerIsBetter[name]).Render(DeltaArrow(d) + " " + kpi.FormatDelta(d))
}
