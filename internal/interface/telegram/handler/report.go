package handler

import (
	"context"
	"errors"

	"github.com/eokul-hub/eokul-gradebook-bot/internal/application/query"
	"github.com/eokul-hub/eokul-gradebook-bot/internal/domain/shared"
	"github.com/eokul-hub/eokul-gradebook-bot/internal/interface/telegram/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPORT HANDLER
// Handles /karne <no> - renders the student's report card.
// ══════════════════════════════════════════════════════════════════════════════

const reportUsage = "Kullanım: /karne <no>\nÖrnek: /karne 1001"

// ReportHandler handles the /karne command.
type ReportHandler struct {
	reportCardQuery *query.GetReportCardHandler
	presenter       *presenter.ReportCardPresenter
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportCardQuery *query.GetReportCardHandler, p *presenter.ReportCardPresenter) *ReportHandler {
	return &ReportHandler{
		reportCardQuery: reportCardQuery,
		presenter:       p,
	}
}

// Handle processes the /karne command.
func (h *ReportHandler) Handle(ctx context.Context, cmdCtx CommandContext) error {
	args := splitArgs(cmdCtx.Args)
	if len(args) != 1 {
		_, err := cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, reportUsage)
		return err
	}

	card, err := h.reportCardQuery.Handle(ctx, query.GetReportCardQuery{StudentID: args[0]})
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrStudentNotFound):
			_, sendErr := cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, "❗ Öğrenci bulunamadı.")
			return sendErr
		case shared.IsValidation(err):
			_, sendErr := cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, reportUsage)
			return sendErr
		default:
			_, sendErr := cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, "🔴 Karne oluşturulamadı, lütfen tekrar deneyin.")
			if sendErr != nil {
				return sendErr
			}
			return err
		}
	}

	_, err = cmdCtx.Client.SendHTML(ctx, cmdCtx.ChatID, h.presenter.RenderHTML(card))
	return err
}
