package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/eokul-hub/eokul-gradebook-bot/internal/application/command"
	"github.com/eokul-hub/eokul-gradebook-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADD COURSE HANDLER
// Handles /ders_ekle <kod> <ad> [kredi] - registers a course in the catalog.
// ══════════════════════════════════════════════════════════════════════════════

const addCourseUsage = "Kullanım: /ders_ekle <kod> <ad> [kredi]\nÖrnek: /ders_ekle MAT101 \"Matematik\" 3"

// AddCourseHandler handles the /ders_ekle command.
type AddCourseHandler struct {
	addCourseCmd *command.AddCourseHandler
}

// NewAddCourseHandler creates a new AddCourseHandler.
func NewAddCourseHandler(addCourseCmd *command.AddCourseHandler) *AddCourseHandler {
	return &AddCourseHandler{addCourseCmd: addCourseCmd}
}

// Handle processes the /ders_ekle command.
func (h *AddCourseHandler) Handle(ctx context.Context, cmdCtx CommandContext) error {
	args := splitArgs(cmdCtx.Args)
	if len(args) < 2 || len(args) > 3 {
		_, err := cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, addCourseUsage)
		return err
	}

	cmd := command.AddCourseCommand{
		Code: args[0],
		Name: args[1],
	}
	if len(args) == 3 {
		credit, err := parseCreditArg(args[2])
		if err != nil {
			_, sendErr := cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, "❗ "+err.Error())
			return sendErr
		}
		cmd.Credit = credit
	}

	result, err := h.addCourseCmd.Handle(ctx, cmd)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrCourseAlreadyExists):
			_, sendErr := cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, "❗ Bu ders kodu zaten kayıtlı.")
			return sendErr
		case shared.IsValidation(err):
			_, sendErr := cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, addCourseUsage)
			return sendErr
		default:
			_, sendErr := cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, "🔴 Ders eklenemedi, lütfen tekrar deneyin.")
			if sendErr != nil {
				return sendErr
			}
			return err
		}
	}

	text := fmt.Sprintf("✅ Ders eklendi: %s (%s, %d kredi)",
		result.Course.Code, result.Course.Name, result.Course.Credit)
	_, err = cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, text)
	return err
}
