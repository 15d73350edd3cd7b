package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/eokul-hub/eokul-gradebook-bot/internal/application/command"
	"github.com/eokul-hub/eokul-gradebook-bot/internal/domain/gradebook"
	"github.com/eokul-hub/eokul-gradebook-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GRADE HANDLER
// Handles /not_gir <no> <ders_kodu> <sınav1> <sınav2> <proje>.
// A score of -1 keeps the stored value, so single scores can be entered as
// they come in during the term.
// ══════════════════════════════════════════════════════════════════════════════

const gradeUsage = "Kullanım: /not_gir <no> <ders_kodu> <sınav1> <sınav2> <proje>\n" +
	"Girmek istemediğiniz not için -1 yazın.\n" +
	"Örnek: /not_gir 1001 MAT101 85 -1 -1"

// GradeHandler handles the /not_gir command.
type GradeHandler struct {
	recordGradesCmd *command.RecordGradesHandler
}

// NewGradeHandler creates a new GradeHandler.
func NewGradeHandler(recordGradesCmd *command.RecordGradesHandler) *GradeHandler {
	return &GradeHandler{recordGradesCmd: recordGradesCmd}
}

// Handle processes the /not_gir command.
func (h *GradeHandler) Handle(ctx context.Context, cmdCtx CommandContext) error {
	args := splitArgs(cmdCtx.Args)
	if len(args) != 5 {
		_, err := cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, gradeUsage)
		return err
	}

	var update gradebook.ScoreUpdate
	for i, target := range []**float64{&update.Exam1, &update.Exam2, &update.Project} {
		score, err := parseScoreArg(args[2+i])
		if err != nil {
			_, sendErr := cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, "❗ "+err.Error())
			return sendErr
		}
		*target = score
	}

	result, err := h.recordGradesCmd.Handle(ctx, command.RecordGradesCommand{
		StudentID:  args[0],
		CourseCode: args[1],
		Scores:     update,
	})
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrStudentNotFound):
			_, sendErr := cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, "❗ Öğrenci bulunamadı.")
			return sendErr
		case errors.Is(err, shared.ErrCourseNotFound):
			_, sendErr := cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, "❗ Ders bulunamadı.")
			return sendErr
		case shared.IsValidation(err):
			_, sendErr := cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, gradeUsage)
			return sendErr
		default:
			_, sendErr := cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, "🔴 Notlar kaydedilemedi, lütfen tekrar deneyin.")
			if sendErr != nil {
				return sendErr
			}
			return err
		}
	}

	text := "✅ Notlar güncellendi."
	if result.Average != nil {
		text = fmt.Sprintf("✅ Notlar güncellendi. %s ortalaması: %.2f (%s)",
			result.Record.CourseCode, *result.Average, result.Letter)
	}
	_, err = cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, text)
	return err
}
