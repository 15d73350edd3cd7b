package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/eokul-hub/eokul-gradebook-bot/internal/application/command"
	"github.com/eokul-hub/eokul-gradebook-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADD STUDENT HANDLER
// Handles /ogrenci_ekle <no> <ad> <sinif> - enrolls a student.
// ══════════════════════════════════════════════════════════════════════════════

const addStudentUsage = "Kullanım: /ogrenci_ekle <no> <ad> <sınıf>\nÖrnek: /ogrenci_ekle 1001 \"Ayşe Yılmaz\" 10-A"

// AddStudentHandler handles the /ogrenci_ekle command.
type AddStudentHandler struct {
	enrollStudentCmd *command.EnrollStudentHandler
}

// NewAddStudentHandler creates a new AddStudentHandler.
func NewAddStudentHandler(enrollStudentCmd *command.EnrollStudentHandler) *AddStudentHandler {
	return &AddStudentHandler{enrollStudentCmd: enrollStudentCmd}
}

// Handle processes the /ogrenci_ekle command.
func (h *AddStudentHandler) Handle(ctx context.Context, cmdCtx CommandContext) error {
	args := splitArgs(cmdCtx.Args)
	if len(args) != 3 {
		_, err := cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, addStudentUsage)
		return err
	}

	result, err := h.enrollStudentCmd.Handle(ctx, command.EnrollStudentCommand{
		StudentID: args[0],
		Name:      args[1],
		ClassName: args[2],
	})
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrStudentAlreadyExists):
			_, sendErr := cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, "❗ Bu öğrenci numarası zaten kayıtlı.")
			return sendErr
		case shared.IsValidation(err):
			_, sendErr := cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, addStudentUsage)
			return sendErr
		default:
			_, sendErr := cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, "🔴 Öğrenci eklenemedi, lütfen tekrar deneyin.")
			if sendErr != nil {
				return sendErr
			}
			return err
		}
	}

	text := fmt.Sprintf("✅ Öğrenci eklendi: %s (%s, %s)",
		result.Student.Name, result.Student.ID, result.Student.ClassName)
	_, err = cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, text)
	return err
}
