package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/kacperborowieckb/gen-records/shared/messaging"
	"github.com/kacperborowieckb/gen-records/shared/schema"
	"github.com/kacperborowieckb/gen-records/utils/db"
	"github.com/kacperborowieckb/gen-records/utils/gemini"
	"github.com/kacperborowieckb/gen-records/utils/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose bool
	model   string
)

var rootCmd = &cobra.Command{
	Use:   "gen-records <schema_file.json>",
	Short: "Generate realistic test records from a JSON Schema",
	Long: `gen-records loads a JSON Schema describing a record, then asks Gemini to
generate records matching free-text prompts in an interactive loop.

Generated records can be saved as CSV. When POSTGRES_HOST is set they can also
be inserted into a table, and when AMQP_URL is set every round is published to
the records exchange.

Environment:
  GEMINI_API_KEY   API key (required)
  GEMINI_MODEL     model name (default gemini-2.5-flash)
  SCHEMA_DIR       where bare schema file names are looked up (default schemas)
  OUTPUT_DIR       where bare CSV file names are written (default output)`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerator,
}

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.Flags().StringVar(&model, "model", "", "Gemini model to use (overrides GEMINI_MODEL)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGenerator(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	log, err := logger.New(verbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cfg, err := LoadConfig(model)
	if err != nil {
		return err
	}

	schemaPath := schema.ResolvePath(args[0], cfg.SchemaDir)
	s, err := schema.Load(args[0], cfg.SchemaDir)
	if err != nil {
		return err
	}

	sessionID := uuid.NewString()
	log = log.With(zap.String("session_id", sessionID))
	log.Info("schema loaded", zap.String("path", schemaPath), zap.Int("fields", len(s.Properties)))

	ctx := cmd.Context()

	// The prompt reader blocks on stdin and never sees a cancelled context,
	// so an interrupt ends the process rather than the context.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go exitOnSignal(sigs, os.Stdout, os.Exit)

	client, err := gemini.NewConnection(ctx, cfg.APIKey, log)
	if err != nil {
		return err
	}

	opts := []option{
		withOutputDir(cfg.OutputDir),
		withSession(sessionID, log),
	}

	if db.Enabled() {
		writer, closeDB, err := connectTables(ctx, log)
		if err != nil {
			return err
		}
		defer closeDB()
		opts = append(opts, withTables(writer))
	}

	if cfg.AmqpURL != "" {
		mq, err := messaging.NewRabbitMQ(cfg.AmqpURL, log)
		if err != nil {
			return err
		}
		defer mq.Close()

		if err := mq.SetupAppTopology(); err != nil {
			return fmt.Errorf("failed to set up RabbitMQ topology: %w", err)
		}
		opts = append(opts, withPublisher(mq))
	}

	srv := newGeneratorServer(s, schemaPath, gemini.NewGenerator(client.Models, cfg.Model, log), opts...)

	return srv.Run(ctx)
}

func connectTables(ctx context.Context, log *zap.Logger) (*db.TableWriter, func(), error) {
	dbConfig, err := db.DBConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load database config: %w", err)
	}

	pool, err := db.NewConnection(ctx, dbConfig.URL())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("database connection pool established", zap.String("host", dbConfig.Host))

	return db.NewTableWriter(pool, log), func() { pool.Close() }, nil
}

// interruptExitCode follows the shell convention of 128 + SIGINT.
const interruptExitCode = 130

func exitOnSignal(sigs <-chan os.Signal, out io.Writer, exit func(int)) {
	if _, ok := <-sigs; !ok {
		return
	}
	fmt.Fprintln(out, "\nInterrupted.")
	exit(interruptExitCode)
}
