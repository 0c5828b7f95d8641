package ui

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"karolbroda.com/adaptiveaccents/internal/host"
	"karolbroda.com/adaptiveaccents/internal/pipeline"
)

// Program is a terminal preview that doubles as a Display. Writes are
// forwarded into the bubbletea loop and never block the pipeline.
type Program struct {
	program *tea.Program
	running atomic.Bool
}

func NewProgram(model Model, opts ...tea.ProgramOption) *Program {
	return &Program{program: tea.NewProgram(model, opts...)}
}

// Run blocks until the user quits or Quit is called.
func (p *Program) Run() error {
	p.running.Store(true)
	defer p.running.Store(false)
	_, err := p.program.Run()
	return err
}

func (p *Program) Quit() {
	p.program.Quit()
}

func (p *Program) SetProperty(scope host.Scope, name string, value string) error {
	p.send(PropertyMsg{Scope: scope, Name: name, Value: value})
	return nil
}

// OnResult is meant for pipeline.Options.OnResult.
func (p *Program) OnResult(res pipeline.Result) {
	p.send(ResultMsg{Result: res})
}

func (p *Program) send(msg tea.Msg) {
	// Send blocks until the program starts
	if !p.running.Load() {
		return
	}
	go p.program.Send(msg)
}
