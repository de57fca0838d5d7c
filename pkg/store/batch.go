package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/storebroker-io/storebroker/internal/constants"
)

// Static errors for batch execution.
var (
	ErrUnsupportedBatchOperation = errors.New("unsupported batch operation type")
	ErrBatchTokenUnavailable     = errors.New("could not acquire shared token for batch")
)

// BatchOperationType enumerates the submission operations a batch can run.
type BatchOperationType string

// Batch operation types.
const (
	BatchOpStatus BatchOperationType = "status"
	BatchOpCommit BatchOperationType = "commit"
	BatchOpDelete BatchOperationType = "delete"
	BatchOpGet    BatchOperationType = "get"
)

// BatchOperation represents a single submission operation in a batch.
type BatchOperation struct {
	ID           string
	Type         BatchOperationType
	ProductID    string
	SubmissionID string
	Callback     func(result *BatchResult)
}

// BatchResult represents the result of a batch operation.
type BatchResult struct {
	ID       string
	Success  bool
	Data     interface{}
	Error    error
	Duration time.Duration
}

// BatchExecutor runs submission operations concurrently with bounded
// parallelism. All operations share one explicitly acquired token so the
// token provider's refresh logic is bypassed for the whole batch.
type BatchExecutor struct {
	client      Client
	concurrency int
	timeout     time.Duration
}

// NewBatchExecutor creates a new batch executor.
func NewBatchExecutor(client Client, concurrency int) *BatchExecutor {
	if concurrency <= 0 {
		concurrency = constants.DefaultConcurrencyLimit
	}

	return &BatchExecutor{
		client:      client,
		concurrency: concurrency,
		timeout:     constants.DefaultHTTPTimeout,
	}
}

// SetTimeout sets the per-operation timeout.
func (b *BatchExecutor) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// Execute runs a batch of operations and returns results in input order.
func (b *BatchExecutor) Execute(ctx context.Context, operations []BatchOperation) ([]BatchResult, error) {
	token, err := b.client.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBatchTokenUnavailable, err)
	}

	// Every operation in the batch reuses this token verbatim.
	ctx = WithToken(ctx, token)

	results := make([]BatchResult, len(operations))

	var waitGroup sync.WaitGroup

	semaphore := make(chan struct{}, b.concurrency)

	for index, operation := range operations {
		waitGroup.Add(1)

		go func(index int, operation BatchOperation) {
			defer waitGroup.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			opCtx, cancel := context.WithTimeout(ctx, b.timeout)
			defer cancel()

			result := b.execute(opCtx, operation)
			results[index] = *result

			if operation.Callback != nil {
				operation.Callback(result)
			}
		}(index, operation)
	}

	waitGroup.Wait()

	return results, nil
}

// execute runs one operation and records its outcome.
func (b *BatchExecutor) execute(ctx context.Context, operation BatchOperation) *BatchResult {
	result := &BatchResult{ID: operation.ID}
	started := time.Now()

	var (
		data interface{}
		err  error
	)

	switch operation.Type {
	case BatchOpStatus:
		data, err = b.client.Submissions().Status(ctx, operation.ProductID, operation.SubmissionID)
	case BatchOpCommit:
		data, err = b.client.Submissions().Commit(ctx, operation.ProductID, operation.SubmissionID)
	case BatchOpDelete:
		err = b.client.Submissions().Delete(ctx, operation.ProductID, operation.SubmissionID)
	case BatchOpGet:
		data, err = b.client.Submissions().Get(ctx, operation.ProductID, operation.SubmissionID)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedBatchOperation, operation.Type)
	}

	result.Success = err == nil
	result.Data = data
	result.Error = err
	result.Duration = time.Since(started)

	return result
}
