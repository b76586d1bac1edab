package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kacperborowieckb/gen-records/shared/messaging"
	"github.com/kacperborowieckb/gen-records/shared/records"
	"github.com/kacperborowieckb/gen-records/shared/schema"
	"go.uber.org/zap"
)

type recordGenerator interface {
	Generate(ctx context.Context, instructions string, shape schema.Shape, prompt string) (records.Reply, error)
}

type tableWriter interface {
	Write(ctx context.Context, table string, set records.Set) (int, error)
}

type eventPublisher interface {
	PublishRecordsGenerated(ctx context.Context, event messaging.RecordsGeneratedEvent) error
}

var separator = strings.Repeat("=", 50)

// generatorServer runs the interactive session. Everything it holds is fixed
// for the lifetime of the process.
type generatorServer struct {
	schema       *schema.Schema
	schemaPath   string
	shape        schema.Shape
	instructions string

	generator recordGenerator
	tables    tableWriter
	publisher eventPublisher

	in        *bufio.Scanner
	out       io.Writer
	outputDir string
	sessionID string
	logger    *zap.Logger
}

type option func(*generatorServer)

func withIO(in io.Reader, out io.Writer) option {
	return func(s *generatorServer) {
		s.in = bufio.NewScanner(in)
		s.out = out
	}
}

func withOutputDir(dir string) option {
	return func(s *generatorServer) { s.outputDir = dir }
}

func withTables(w tableWriter) option {
	return func(s *generatorServer) { s.tables = w }
}

func withPublisher(p eventPublisher) option {
	return func(s *generatorServer) { s.publisher = p }
}

func withSession(id string, logger *zap.Logger) option {
	return func(s *generatorServer) {
		s.sessionID = id
		s.logger = logger
	}
}

// newGeneratorServer compiles the schema-derived instruction and shape once;
// both stay fixed for the whole session.
func newGeneratorServer(s *schema.Schema, schemaPath string, gen recordGenerator, opts ...option) *generatorServer {
	shape := schema.DeriveShape(s)

	srv := &generatorServer{
		schema:       s,
		schemaPath:   schemaPath,
		shape:        shape,
		instructions: BuildSystemInstruction(s, shape),
		generator:    gen,
		in:           bufio.NewScanner(os.Stdin),
		out:          os.Stdout,
		outputDir:    "output",
		logger:       zap.NewNop(),
	}

	for _, opt := range opts {
		opt(srv)
	}

	return srv
}

// ask prints prompt and reads one line. It reports false once input is exhausted.
func (s *generatorServer) ask(prompt string) (string, bool) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}

// Run loops until the user quits or input ends. Generation and reply parsing
// failures end the session and are returned.
func (s *generatorServer) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Test Data Generator")
	fmt.Fprintln(s.out, separator)
	fmt.Fprintf(s.out, "Loaded schema from: %s\n\n", s.schemaPath)

	for {
		prompt, ok := s.ask("Enter your data generation prompt (or 'quit' to exit): ")
		if !ok {
			fmt.Fprintln(s.out)
			break
		}
		if strings.EqualFold(strings.TrimSpace(prompt), "quit") {
			break
		}

		fmt.Fprintln(s.out, "\nGenerating records...")

		res, err := s.handleGenerate(ctx, prompt)
		if err != nil {
			return err
		}

		if res.Outcome == records.OutcomeEmpty || res.Set.Len() == 0 {
			fmt.Fprintln(s.out, "No records generated.")
		} else {
			text, err := res.Set.Indented()
			if err != nil {
				return fmt.Errorf("failed to render records: %w", err)
			}

			fmt.Fprintln(s.out, "\nGenerated Records:")
			fmt.Fprintln(s.out, text)

			s.handlePublish(ctx, prompt, res.Set)
			s.handleSave(res.Set)
			s.handleInsert(ctx, res.Set)
		}

		fmt.Fprintln(s.out, "\n"+separator)
	}

	if err := s.in.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	return nil
}
