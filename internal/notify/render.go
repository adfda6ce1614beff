package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"surfwatch/internal/model"
)

// Subject builds the mail subject line.
func Subject(s Summary) string {
	return fmt.Sprintf("🏄 %d NEW Waco Surf Slot(s) (%s)", len(s.Slots), s.Range)
}

// PlainBody renders the plain-text representation of the report: header,
// count line, then one bullet per slot with its booking link.
func PlainBody(s Summary) string {
	var b strings.Builder
	b.WriteString("🏄 NEW Waco Surf Slots!\n\n")
	fmt.Fprintf(&b, "Found %d new session(s) between %s and %s:\n\n",
		len(s.Slots), s.Range.Start.Format(model.DateLayout), s.Range.End.Format(model.DateLayout))
	for _, slot := range s.Slots {
		fmt.Fprintf(&b, "• %s @ %s - %s (%d spots)\n", slot.Date, slot.Time, slot.Session, slot.Capacity)
		fmt.Fprintf(&b, "  Book: %s\n\n", slot.BookURL)
	}
	b.WriteString("Book quickly - these spots go fast!")
	return b.String()
}

var htmlTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family:system-ui,sans-serif;max-width:800px;margin:0 auto;padding:20px;">
    <h2 style="color:#2563eb;">🏄 NEW Waco Surf Slots!</h2>
    <p>Found <strong>{{len .Slots}}</strong> new session(s) between {{.Start}} and {{.End}}:</p>
    <table style="border-collapse:collapse;width:100%;margin:20px 0;">
        <thead>
            <tr style="background:#f3f4f6;">
                <th style="padding:10px;text-align:left;border-bottom:2px solid #ddd;">Date</th>
                <th style="padding:10px;text-align:left;border-bottom:2px solid #ddd;">Time</th>
                <th style="padding:10px;text-align:left;border-bottom:2px solid #ddd;">Session</th>
                <th style="padding:10px;text-align:left;border-bottom:2px solid #ddd;">Availability</th>
                <th style="padding:10px;text-align:left;border-bottom:2px solid #ddd;">Action</th>
            </tr>
        </thead>
        <tbody>
        {{- range .Slots}}
            <tr>
                <td style="padding:8px;border-bottom:1px solid #ddd;">{{.Date}}</td>
                <td style="padding:8px;border-bottom:1px solid #ddd;">{{.Time}}</td>
                <td style="padding:8px;border-bottom:1px solid #ddd;">{{.Session}}</td>
                <td style="padding:8px;border-bottom:1px solid #ddd;">{{.Capacity}} spots</td>
                <td style="padding:8px;border-bottom:1px solid #ddd;">
                    <a href="{{.BookURL}}" style="color:#0066cc;">Book Now</a>
                </td>
            </tr>
        {{- end}}
        </tbody>
    </table>
    <p style="color:#666;font-size:14px;">
        Book quickly - these spots go fast!<br>
        <a href="{{.BrowseURL}}">Browse all availability</a>
    </p>
</body>
</html>`))

type htmlData struct {
	Slots     []htmlSlot
	Start     string
	End       string
	BrowseURL string
}

type htmlSlot struct {
	Date     string
	Time     string
	Session  string
	Capacity int
	BookURL  string
}

// defaultBrowseURL is the catch-all booking page linked in the footer.
const defaultBrowseURL = "https://fareharbor.com/embeds/book/wacosurf/?flow=784809"

// HTMLBody renders the rich representation of the same report.
func HTMLBody(s Summary) (string, error) {
	data := htmlData{
		Start:     s.Range.Start.Format(model.DateLayout),
		End:       s.Range.End.Format(model.DateLayout),
		BrowseURL: defaultBrowseURL,
	}
	for _, slot := range s.Slots {
		data.Slots = append(data.Slots, htmlSlot{
			Date:     slot.Date,
			Time:     slot.Time,
			Session:  slot.Session,
			Capacity: slot.Capacity,
			BookURL:  slot.BookURL,
		})
	}

	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render html report: %w", err)
	}
	return buf.String(), nil
}
