package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/episteme-app/episteme/internal/model"
)

// Generator defines the interface for generating an article from a query
type Generator interface {
	Generate(ctx context.Context, query string) (*model.Article, error)
}

// QueryJob represents an article generation job
type QueryJob struct {
	Query     string
	Generator Generator
}

// Execute executes the generation job
func (j *QueryJob) Execute(ctx context.Context) Result {
	article, err := j.Generator.Generate(ctx, j.Query)
	if err != nil {
		return &QueryResult{
			Query:   j.Query,
			Article: nil,
			Error:   err,
		}
	}
	return &QueryResult{
		Query:   j.Query,
		Article: article,
		Error:   nil,
	}
}

// QueryResult represents the result of a generation job
type QueryResult struct {
	Query   string
	Article *model.Article
	Error   error
}

// GetError returns the error from the query result
func (r *QueryResult) GetError() error {
	return r.Error
}

// BatchProcessor generates articles for multiple queries concurrently
type BatchProcessor struct {
	generator   Generator
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(generator Generator, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		generator:   generator,
		concurrency: concurrency,
	}
}

// ProcessQueries generates articles for multiple queries concurrently
func (b *BatchProcessor) ProcessQueries(ctx context.Context, queries []string) []*QueryResult {
	if len(queries) == 0 {
		return []*QueryResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, query := range queries {
		job := &QueryJob{
			Query:     query,
			Generator: b.generator,
		}
		pool.Submit(job)
	}

	results := pool.Wait()

	queryResults := make([]*QueryResult, len(results))
	for i, result := range results {
		queryResults[i] = result.(*QueryResult)
	}

	return queryResults
}

// ProcessFile reads queries from a file and processes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*QueryResult, error) {
	queries, err := ReadQueriesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}

	return b.ProcessQueries(ctx, queries), nil
}

// ReadQueriesFromFile reads queries from a file (one per line)
func ReadQueriesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var queries []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Deduplicate queries
		if !seen[line] {
			seen[line] = true
			queries = append(queries, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return queries, nil
}
