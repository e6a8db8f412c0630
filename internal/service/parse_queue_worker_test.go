package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"spesen/internal/config"
	"spesen/internal/domain"
	"spesen/internal/service"
	"spesen/mocks"
)

func testQueueConfig() config.QueueConfig {
	return config.QueueConfig{
		PollInterval: 50 * time.Millisecond,
		MaxRetries:   5,
		Concurrency:  2,
	}
}

func queuedReceipt() domain.Receipt {
	now := time.Now()
	return domain.Receipt{
		ID:            uuid.New(),
		TravelID:      uuid.New(),
		StorageKey:    "travels/x/receipts/y.pdf",
		MimeType:      "application/pdf",
		ParsingStatus: domain.ParsingStatusFailed,
		ParseQueuedAt: &now,
		ParseRetries:  1,
	}
}

func TestParseQueueWorker_DispatchesClaimedReceipts(t *testing.T) {
	receiptRepo := new(mocks.MockReceiptRepo)
	receiptSvc := new(mocks.MockReceiptService)

	receipt := queuedReceipt()
	dispatched := make(chan struct{}, 1)

	receiptRepo.On("ClaimQueued", mock.Anything, 2, 5).
		Return([]domain.Receipt{receipt}, nil).Once()
	receiptRepo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int"), 5).
		Return([]domain.Receipt{}, nil).Maybe()
	receiptSvc.On("ParseReceipt", mock.Anything, mock.AnythingOfType("*domain.Receipt"), 5).
		Run(func(args mock.Arguments) {
			got := args.Get(1).(*domain.Receipt)
			assert.Equal(t, receipt.ID, got.ID)
			dispatched <- struct{}{}
		}).Once()

	worker := service.NewParseQueueWorker(receiptRepo, receiptSvc, testQueueConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	select {
	case <-dispatched:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not dispatch the claimed receipt")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not shut down")
	}

	receiptSvc.AssertExpectations(t)
}

func TestParseQueueWorker_ClaimLimitMatchesFreeSlots(t *testing.T) {
	receiptRepo := new(mocks.MockReceiptRepo)
	receiptSvc := new(mocks.MockReceiptService)

	polled := make(chan int, 8)
	receiptRepo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int"), 5).
		Run(func(args mock.Arguments) {
			select {
			case polled <- args.Int(1):
			default:
			}
		}).
		Return([]domain.Receipt{}, nil)

	worker := service.NewParseQueueWorker(receiptRepo, receiptSvc, testQueueConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	var limit int
	select {
	case limit = <-polled:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never polled the queue")
	}

	cancel()
	<-done

	// With nothing in flight every slot is offered to the claim.
	assert.Equal(t, 2, limit)
	receiptSvc.AssertNotCalled(t, "ParseReceipt", mock.Anything, mock.Anything, mock.Anything)
}

func TestParseQueueWorker_ShutdownWaitsForInflightParse(t *testing.T) {
	receiptRepo := new(mocks.MockReceiptRepo)
	receiptSvc := new(mocks.MockReceiptService)

	receipt := queuedReceipt()
	started := make(chan struct{})
	release := make(chan struct{})

	receiptRepo.On("ClaimQueued", mock.Anything, 2, 5).
		Return([]domain.Receipt{receipt}, nil).Once()
	receiptRepo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int"), 5).
		Return([]domain.Receipt{}, nil).Maybe()
	receiptSvc.On("ParseReceipt", mock.Anything, mock.AnythingOfType("*domain.Receipt"), 5).
		Run(func(args mock.Arguments) {
			close(started)
			<-release
		}).Once()

	worker := service.NewParseQueueWorker(receiptRepo, receiptSvc, testQueueConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not start the parse")
	}

	cancel()

	// Start must not return while the parse goroutine is still running.
	select {
	case <-done:
		t.Fatal("worker returned before the in-flight parse finished")
	case <-time.After(200 * time.Millisecond):
	}

	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not shut down after the parse finished")
	}
}
