// Package presenter formats view models into Telegram messages.
package presenter

import (
	"fmt"
	"html"
	"strings"

	"github.com/eokul-hub/eokul-gradebook-bot/internal/application/query"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPORT CARD PRESENTER
// Karneyi sabit genişlikli sütunlarla metne döker. The output is wrapped in
// <pre> so Telegram renders it monospaced and the columns line up.
// ══════════════════════════════════════════════════════════════════════════════

const reportSeparator = "-----------------------------------------"

// ReportCardPresenter renders report cards as monospaced text.
type ReportCardPresenter struct{}

// NewReportCardPresenter creates a new ReportCardPresenter.
func NewReportCardPresenter() *ReportCardPresenter {
	return &ReportCardPresenter{}
}

// Render produces the plain-text report card.
func (p *ReportCardPresenter) Render(card *query.ReportCard) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Öğrenci: %s (%s)  Sınıf: %s\n", card.StudentName, card.StudentID, card.ClassName)
	b.WriteString(reportSeparator + "\n")
	fmt.Fprintf(&b, "%-10s %5s %5s %5s %6s %5s\n", "Ders", "S1", "S2", "PR", "Ort", "Harf")

	for _, row := range card.Rows {
		fmt.Fprintf(&b, "%-10s %5s %5s %5s %6s %5s\n",
			row.CourseCode,
			formatScore(row.Exam1),
			formatScore(row.Exam2),
			formatScore(row.Project),
			formatAverage(row.Average),
			formatLetter(row.Letter),
		)
	}

	b.WriteString(reportSeparator + "\n")
	if card.OverallAverage != nil {
		fmt.Fprintf(&b, "Genel Ortalama: %.2f", *card.OverallAverage)
	} else {
		b.WriteString("Genel Ortalama: -")
	}

	return b.String()
}

// RenderHTML wraps the rendered report card in a <pre> block for Telegram.
func (p *ReportCardPresenter) RenderHTML(card *query.ReportCard) string {
	return "<pre>" + html.EscapeString(p.Render(card)) + "</pre>"
}

// formatScore renders a score or a dash when absent. A recorded zero is a
// real score and renders as 0.
func formatScore(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *v)
}

func formatAverage(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func formatLetter(letter string) string {
	if letter == "" {
		return "-"
	}
	return letter
}
