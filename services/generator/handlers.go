package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/kacperborowieckb/gen-records/shared/messaging"
	"github.com/kacperborowieckb/gen-records/shared/records"
	"github.com/kacperborowieckb/gen-records/utils/db"
	"go.uber.org/zap"
)

func (s *generatorServer) handleGenerate(ctx context.Context, prompt string) (records.Result, error) {
	reply, err := s.generator.Generate(ctx, s.instructions, s.shape, prompt)
	if err != nil {
		return records.Result{}, err
	}

	s.logger.Debug("normalizing reply", zap.String("kind", reply.Kind()))

	res, err := records.Normalize(reply, s.schema)
	if err != nil {
		return records.Result{}, fmt.Errorf("failed to normalize reply: %w", err)
	}

	s.logger.Debug("normalized reply",
		zap.Stringer("outcome", res.Outcome),
		zap.Int("records", res.Set.Len()),
		zap.Int("declared_count", res.Set.Count),
	)

	return res, nil
}

func (s *generatorServer) handleSave(set records.Set) {
	answer, ok := s.ask("\nSave to file? (y/n): ")
	if !ok || !isYes(answer) {
		return
	}

	filename, ok := s.ask(fmt.Sprintf("Filename (default: %s): ", records.DefaultFilename))
	if !ok {
		return
	}
	filename = strings.TrimSpace(filename)
	if filename == "" {
		filename = records.DefaultFilename
	}

	path, err := records.WriteCSV(set, filename, s.outputDir)
	if err != nil {
		s.logger.Warn("failed to save records", zap.Error(err))
		fmt.Fprintf(s.out, "Failed to save records: %v\n", err)
		return
	}

	fmt.Fprintf(s.out, "Saved to %s\n", path)
}

func (s *generatorServer) handleInsert(ctx context.Context, set records.Set) {
	if s.tables == nil {
		return
	}

	answer, ok := s.ask("Insert into database table? (y/n): ")
	if !ok || !isYes(answer) {
		return
	}

	table, ok := s.ask(fmt.Sprintf("Table name (default: %s): ", db.DefaultTable))
	if !ok {
		return
	}
	table = strings.TrimSpace(table)
	if table == "" {
		table = db.DefaultTable
	}

	n, err := s.tables.Write(ctx, table, set)
	if err != nil {
		s.logger.Warn("failed to insert records", zap.String("table", table), zap.Error(err))
		fmt.Fprintf(s.out, "Failed to insert records: %v\n", err)
		return
	}

	fmt.Fprintf(s.out, "Inserted %d records into %s\n", n, table)
}

func (s *generatorServer) handlePublish(ctx context.Context, prompt string, set records.Set) {
	if s.publisher == nil {
		return
	}

	event := messaging.NewRecordsGeneratedEvent(s.sessionID, s.schemaPath, prompt, set)
	if err := s.publisher.PublishRecordsGenerated(ctx, event); err != nil {
		s.logger.Warn("failed to publish generated records", zap.Error(err))
		return
	}

	s.logger.Debug("published generated records", zap.Int("records", set.Len()))
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
