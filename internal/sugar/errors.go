package sugar

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ErrorModel is a model that can finish with a failure of its own.
type ErrorModel interface {
	tea.Model
	GetError() error
}

// RunProgramWithErrors runs model to completion and returns the final model
// along with whichever error ended it. Program errors take precedence over the
// model's own.
func RunProgramWithErrors(model ErrorModel, options ...tea.ProgramOption) (tea.Model, error) {
	final, teaErr := tea.NewProgram(model, options...).Run()
	if teaErr != nil {
		return final, teaErr
	}

	if errorModel, ok := final.(ErrorModel); ok {
		return final, errorModel.GetError()
	}
	return final, nil
}
