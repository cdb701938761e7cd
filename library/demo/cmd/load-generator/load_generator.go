// Package main implements a load generator that lets many students borrow and return copies of one
// book concurrently, then checks that no copy was lost or created on the way.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/library/features/command/changeloanstatus"
	"github.com/AntonStoeckl/library-lending/library/features/command/lendbook"
	"github.com/AntonStoeckl/library-lending/library/shared/shell"
	"github.com/AntonStoeckl/library-lending/library/shared/shell/observable"
	"github.com/AntonStoeckl/library-lending/librarystore"
	"github.com/AntonStoeckl/library-lending/librarystore/sqlengine"
)

const operationTimeout = 5 * time.Second

// ErrStockMismatch is returned by VerifyStock when shelf copies and open loans do not add up.
var ErrStockMismatch = errors.New("stock mismatch")

// ObservabilityConfig holds the observability adapters for the command handlers.
type ObservabilityConfig struct {
	ContextualLogger shell.ContextualLogger
	MetricsCollector shell.MetricsCollector
	TracingCollector shell.TracingCollector
}

// LoadGenerator drives concurrent lending against a single book.
type LoadGenerator struct {
	store  sqlengine.Store
	config Config
	runID  string

	lendHandler   shell.CoreCommandHandler[lendbook.Command, librarystore.Loan]
	returnHandler shell.CoreCommandHandler[changeloanstatus.Command, librarystore.Loan]

	librarian librarystore.User
	students  []librarystore.User
	book      librarystore.Book

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu           sync.Mutex
	openLoans    []librarystore.LoanIDInt64
	requestCount int64
	rejectCount  int64
	errorCount   int64
	startTime    time.Time
}

// NewLoadGenerator creates the actors of this run and the contested book.
func NewLoadGenerator(ctx context.Context, store sqlengine.Store, config Config, obs ObservabilityConfig) (*LoadGenerator, error) {
	lg := &LoadGenerator{
		store:    store,
		config:   config,
		runID:    uuid.NewString()[:8],
		stopChan: make(chan struct{}),

		lendHandler: mustCreateCommandHandler(observable.NewCommandWrapper[lendbook.Command, librarystore.Loan](
			lendbook.NewCommandHandler(store),
			buildCommandOptions[lendbook.Command, librarystore.Loan](obs)...,
		)),
		returnHandler: mustCreateCommandHandler(observable.NewCommandWrapper[changeloanstatus.Command, librarystore.Loan](
			changeloanstatus.NewCommandHandler(store),
			buildCommandOptions[changeloanstatus.Command, librarystore.Loan](obs)...,
		)),
	}

	if err := lg.arrange(ctx); err != nil {
		return nil, err
	}

	return lg, nil
}

// RunID identifies the users and the book created for this run.
func (lg *LoadGenerator) RunID() string {
	return lg.runID
}

func (lg *LoadGenerator) arrange(ctx context.Context) error {
	librarian, err := lg.givenUser(ctx, "librarian", librarystore.RightLibrarian)
	if err != nil {
		return err
	}

	lg.librarian = librarian

	for i := range lg.config.Students {
		student, err := lg.givenUser(ctx, fmt.Sprintf("student-%d", i), librarystore.RightStudent)
		if err != nil {
			return err
		}

		lg.students = append(lg.students, student)
	}

	book, err := lg.store.InsertBook(ctx, librarystore.Book{
		Title:         "Load Test Book " + lg.runID,
		Author:        "Test Author",
		Description:   "Contested by every student of the run",
		Language:      "en",
		Quantity:      lg.config.InitialStock,
		LibrarianID:   librarian.ID,
		Publisher:     "Test Publisher",
		NumberOfPages: 100,
	})
	if err != nil {
		return err
	}

	lg.book = book

	return nil
}

func (lg *LoadGenerator) givenUser(ctx context.Context, name string, right librarystore.RightCode) (librarystore.User, error) {
	user, err := lg.store.InsertUser(ctx, librarystore.User{
		Name:  name,
		Email: fmt.Sprintf("%s-%s@load.test", name, lg.runID),
		// load users cannot log in
		PasswordHash: "!",
	})
	if err != nil {
		return librarystore.User{}, err
	}

	return user, lg.store.AssignRight(ctx, user.ID, right)
}

// Start generates load until ctx ends or Stop is called.
func (lg *LoadGenerator) Start(ctx context.Context) error {
	lg.startTime = time.Now()

	ticker := time.NewTicker(time.Second / time.Duration(lg.config.Rate))
	defer ticker.Stop()

	lg.wg.Add(1)
	go lg.metricsReporter(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-lg.stopChan:
			return nil

		case <-ticker.C:
			lg.wg.Add(1)
			go lg.executeScenario(ctx)
		}
	}
}

// Stop waits for in-flight scenarios.
func (lg *LoadGenerator) Stop(ctx context.Context) error {
	lg.stopOnce.Do(func() { close(lg.stopChan) })

	done := make(chan struct{})
	go func() {
		lg.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		lg.logStats("Final Stats")
		return nil
	case <-ctx.Done():
		lg.logStats("Final Stats")
		return fmt.Errorf("shutdown timeout exceeded")
	}
}

func (lg *LoadGenerator) executeScenario(ctx context.Context) {
	defer lg.wg.Done()

	opCtx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	var err error
	if rand.Intn(100) < lg.config.ReturnWeight { //nolint:gosec // load generation, weak random is fine
		err = lg.returnLoan(opCtx)
	} else {
		err = lg.lendCopy(opCtx)
	}

	lg.mu.Lock()
	defer lg.mu.Unlock()

	lg.requestCount++

	switch {
	case err == nil:
	case shell.IsBusinessFailure(err):
		// running out of copies is the expected outcome under contention
		lg.rejectCount++
	case ctx.Err() != nil:
	default:
		lg.errorCount++
		log.Printf("Scenario error: %v", err)
	}
}

func (lg *LoadGenerator) lendCopy(ctx context.Context) error {
	student := lg.students[rand.Intn(len(lg.students))] //nolint:gosec // load generation, weak random is fine
	quantity := 1 + rand.Intn(2)                       //nolint:gosec // load generation, weak random is fine

	result, err := lg.lendHandler.Handle(ctx, lendbook.BuildCommand(student.ID, lg.book.ID, time.Now().UTC(), quantity, 0))
	if err != nil {
		return err
	}

	lg.mu.Lock()
	lg.openLoans = append(lg.openLoans, result.Value.ID)
	lg.mu.Unlock()

	return nil
}

func (lg *LoadGenerator) returnLoan(ctx context.Context) error {
	lg.mu.Lock()
	if len(lg.openLoans) == 0 {
		lg.mu.Unlock()
		return nil
	}

	i := rand.Intn(len(lg.openLoans)) //nolint:gosec // load generation, weak random is fine
	loanID := lg.openLoans[i]
	lg.openLoans = append(lg.openLoans[:i], lg.openLoans[i+1:]...)
	lg.mu.Unlock()

	command := changeloanstatus.BuildCommand(lg.librarian.ID, loanID, librarystore.LoanStatusReturned.String())
	_, err := lg.returnHandler.Handle(ctx, command)

	return err
}

// VerifyStock checks that the copies on the shelf plus the copies on open loans equal the initial stock.
func (lg *LoadGenerator) VerifyStock(ctx context.Context) error {
	ctx = librarystore.WithStrongConsistency(ctx)

	book, err := lg.store.BookByID(ctx, lg.book.ID)
	if err != nil {
		return err
	}

	loans, err := lg.store.Loans(ctx, librarystore.BuildLoanFilter().OnlyActive().ForAnyStudent().Finalize())
	if err != nil && !errors.Is(err, librarystore.ErrLoanNotFound) {
		return err
	}

	lent := 0
	for _, loan := range loans {
		if loan.BookID == lg.book.ID {
			lent += loan.Quantity
		}
	}

	log.Printf("Stock: %d on the shelf + %d on loan, started with %d", book.Quantity, lent, lg.config.InitialStock)

	if book.Quantity < 0 || book.Quantity+lent != lg.config.InitialStock {
		return fmt.Errorf("%w: %d on the shelf + %d on loan != %d", ErrStockMismatch, book.Quantity, lent, lg.config.InitialStock)
	}

	return nil
}

func (lg *LoadGenerator) metricsReporter(ctx context.Context) {
	defer lg.wg.Done()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-lg.stopChan:
			return
		case <-ticker.C:
			lg.logStats("Stats")
		}
	}
}

func (lg *LoadGenerator) logStats(prefix string) {
	lg.mu.Lock()
	duration := time.Since(lg.startTime)
	requests := lg.requestCount
	rejects := lg.rejectCount
	errs := lg.errorCount
	lg.mu.Unlock()

	if duration <= 0 || requests == 0 {
		return
	}

	log.Printf("%s: %d requests in %v (%.1f req/s), %d rejected, %d errors, %d goroutines",
		prefix, requests, duration.Truncate(time.Second), float64(requests)/duration.Seconds(),
		rejects, errs, runtime.NumGoroutine())
}

func buildCommandOptions[C shell.Command, T any](obs ObservabilityConfig) []observable.CommandOption[C, T] {
	var options []observable.CommandOption[C, T]
	if obs.MetricsCollector != nil {
		options = append(options, observable.WithCommandMetrics[C, T](obs.MetricsCollector))
	}
	if obs.TracingCollector != nil {
		options = append(options, observable.WithCommandTracing[C, T](obs.TracingCollector))
	}
	if obs.ContextualLogger != nil {
		options = append(options, observable.WithCommandContextualLogging[C, T](obs.ContextualLogger))
	}
	return options
}

// mustCreateCommandHandler panics if wrapping a command handler fails, the generator cannot run without it.
func mustCreateCommandHandler[T any](handler T, err error) T {
	if err != nil {
		panic(fmt.Sprintf("Failed to create command handler: %v", err))
	}
	return handler
}
