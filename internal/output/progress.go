// internal/output/progress.go
package output

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/altuslabsxyz/web3tx/pkg/transaction"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// stages are the milestones a successful transaction passes, in order.
var stages = []transaction.Milestone{
	transaction.MilestoneSent,
	transaction.MilestoneConfirmed,
	transaction.MilestoneEnsured,
}

// Progress prints a [N/M] line for every milestone a transaction reaches on
// its way to a target milestone. With animation enabled, a spinner shows
// which milestone is being waited on. Thread-safe: milestone callbacks fire
// from the transaction's delivery goroutine.
type Progress struct {
	out      io.Writer
	animate  bool
	jsonMode bool

	mu       sync.Mutex
	message  string
	frameIdx int
	stop     chan struct{}
	done     chan struct{}
}

// NewProgress creates a Progress writing to out.
func NewProgress(out io.Writer) *Progress {
	return &Progress{out: out}
}

// SetAnimate enables the spinner; only useful on a terminal.
func (p *Progress) SetAnimate(animate bool) {
	p.animate = animate
}

// SetJSONMode enables JSON output mode (suppresses text output).
func (p *Progress) SetJSONMode(jsonMode bool) {
	p.jsonMode = jsonMode
}

// Watch subscribes to tx and reports milestones up to and including target.
// Call it before Submit so the sent milestone is not missed.
func (p *Progress) Watch(tx *transaction.Transaction, target transaction.Milestone) {
	total := 1
	for i, m := range stages {
		if m == target {
			total = i + 1
		}
	}

	for i, m := range stages[:total] {
		step := i + 1
		milestone := m
		tx.On(milestone, func(tx *transaction.Transaction) {
			p.stage(step, total, milestone, tx)
		})
	}
	tx.On(transaction.MilestoneFailed, func(tx *transaction.Transaction) {
		p.failed(tx)
	})
}

func (p *Progress) stage(step, total int, m transaction.Milestone, tx *transaction.Transaction) {
	if p.jsonMode {
		return
	}
	p.stopSpinner()

	p.mu.Lock()
	cyan := color.New(color.FgCyan)
	cyan.Fprintf(p.out, "[%d/%d] %s", step, total, m)
	if m == transaction.MilestoneSent {
		fmt.Fprintf(p.out, " %s", tx.ID())
	}
	fmt.Fprintln(p.out)
	p.mu.Unlock()

	if step < total {
		p.startSpinner(fmt.Sprintf("waiting for %s", stages[step]))
	}
}

func (p *Progress) failed(tx *transaction.Transaction) {
	if p.jsonMode {
		return
	}
	p.stopSpinner()

	p.mu.Lock()
	defer p.mu.Unlock()
	red := color.New(color.FgRed)
	red.Fprintf(p.out, "✗ failed: %v\n", tx.Err())
}

// Done prints a completion message.
func (p *Progress) Done(message string) {
	if p.jsonMode {
		return
	}
	p.stopSpinner()

	p.mu.Lock()
	defer p.mu.Unlock()
	green := color.New(color.FgGreen)
	green.Fprintf(p.out, "✓ %s\n", message)
}

func (p *Progress) startSpinner(message string) {
	if !p.animate {
		return
	}
	p.mu.Lock()
	if p.stop != nil {
		p.message = message
		p.mu.Unlock()
		return
	}
	p.message = message
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	stop, done := p.stop, p.done
	p.mu.Unlock()

	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		defer close(done)

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				p.render()
			}
		}
	}()
}

func (p *Progress) stopSpinner() {
	p.mu.Lock()
	stop, done := p.stop, p.done
	p.stop, p.done = nil, nil
	p.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done

	p.mu.Lock()
	fmt.Fprintf(p.out, "\r%80s\r", "")
	p.mu.Unlock()
}

func (p *Progress) render() {
	p.mu.Lock()
	defer p.mu.Unlock()
	frame := spinnerFrames[p.frameIdx]
	p.frameIdx = (p.frameIdx + 1) % len(spinnerFrames)
	fmt.Fprintf(p.out, "\r%s %s          ", frame, p.message)
}
