package formatter

import (
	"github.com/alexanderramin/harborguide/internal/service"
)

// FormatImport reports how many port calls were stored.
func FormatImport(res *service.ImportResult) string {
	if res == nil || res.Total == 0 {
		return Dim("No port calls found.") + "\n"
	}
	return StyleGreen.Render("✔") + " Imported " + Plural(res.Inserted, "port call") + ".\n"
}
