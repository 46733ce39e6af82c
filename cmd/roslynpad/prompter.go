package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/wanggangzero/RoslynPad/internal/editor"
)

// dialogPrompter asks the save question with a native message dialog.
type dialogPrompter struct {
	app *App
}

func (p dialogPrompter) PromptSave(ctx context.Context, doc editor.Document) (editor.SaveChoice, error) {
	appCtx := p.app.context()
	if appCtx == nil {
		return editor.Cancel, errors.New("window not started")
	}

	answer, err := messageDialog(appCtx, runtime.MessageDialogOptions{
		Type:          runtime.QuestionDialog,
		Title:         "RoslynPad",
		Message:       fmt.Sprintf("Save changes to %s?", doc.Title),
		Buttons:       []string{editor.Save.String(), editor.DontSave.String(), editor.Cancel.String()},
		DefaultButton: editor.Save.String(),
		CancelButton:  editor.Cancel.String(),
	})
	if err != nil {
		return editor.Cancel, err
	}

	switch answer {
	case editor.Save.String(), "Yes":
		if doc.Path == "" {
			saved, err := p.app.SaveDocumentAs(string(doc.ID))
			if err != nil || !saved {
				return editor.Cancel, err
			}
			// Already written; closing needs no further save
			return editor.DontSave, nil
		}
		return editor.Save, nil
	case editor.DontSave.String(), "No":
		return editor.DontSave, nil
	}
	return editor.Cancel, nil
}
