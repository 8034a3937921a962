package vault

import (
	"os"
	"os/exec"
	"strings"

	"github.com/aidanlsb/noted/internal/shellquote"
)

// Editor returns the configured editor, falling back to $VISUAL and then
// $EDITOR.
func Editor(configured string) string {
	if e := strings.TrimSpace(configured); e != "" {
		return e
	}
	if e := os.Getenv("VISUAL"); e != "" {
		return e
	}
	return os.Getenv("EDITOR")
}

// EditorCommand builds the command that opens filePath in editor. Editors
// with arguments (e.g. "code --wait") are run through the shell.
func EditorCommand(editor, filePath string) *exec.Cmd {
	if strings.Contains(editor, " ") {
		return exec.Command("sh", "-c", editor+" "+shellquote.Quote(filePath))
	}
	return exec.Command(editor, filePath)
}

// OpenInEditor runs editor on filePath attached to the current terminal
// and waits for it to exit.
func OpenInEditor(editor, filePath string) error {
	cmd := EditorCommand(editor, filePath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
