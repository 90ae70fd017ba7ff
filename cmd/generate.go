package cmd

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sranjan/examforge/internal/analysis"
	"github.com/sranjan/examforge/internal/assessment"
	"github.com/sranjan/examforge/internal/config"
	"github.com/sranjan/examforge/internal/export"
	"github.com/sranjan/examforge/internal/llm"
	"github.com/sranjan/examforge/internal/logger"
	"github.com/sranjan/examforge/internal/mcq"
	"github.com/sranjan/examforge/internal/store"
	"github.com/sranjan/examforge/internal/textbook"
)

var generateCmd = &cobra.Command{
	Use:   "generate <file>...",
	Short: "Run the full pipeline on local textbook files",
	Long: "Analyze the given textbook files, generate all four question parts, and\n" +
		"write the accumulated assessment as CSV and JSON.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir, _ := cmd.Flags().GetString("out")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.LLM.Validate(); err != nil {
			return err
		}

		log := logger.New(cfg.Logger)
		defer log.Sync()

		dbPath, err := resolveDBPath(cmd, cfg.DBPath)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		var eventLog store.EventLog = store.NopEventLog{}
		if dbPath != "" {
			st, err := store.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open request log: %w", err)
			}
			defer st.Close()
			eventLog = st.EventLog()
		}

		ctx := cmd.Context()
		provider, err := llm.NewProvider(ctx, cfg.LLM, eventLog, log)
		if err != nil {
			return err
		}

		analyzer := analysis.NewService(provider, analysis.DefaultConfig())
		generator := mcq.NewGenerator(provider, mcq.DefaultConfig(), log)
		sess := assessment.NewSession(analyzer, generator, cfg.LLM.Timeout, log)

		for _, path := range args {
			f, err := loadFile(path)
			if err != nil {
				return err
			}
			if err := sess.AddFile(f); err != nil {
				return err
			}
		}

		result, err := sess.StartAnalysis(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Analysis: %d chapters, %d topics, %d parts\n",
			len(result.Chapters), result.TotalTopics, len(result.Parts))
		for i, p := range result.Parts {
			fmt.Printf("  Part %d: %s (%d chapters)\n", i+1, p.Name, len(p.ChapterTitles))
		}

		for sess.Status() == assessment.StatusReadyToGenerate {
			part := sess.CurrentPart()
			fmt.Printf("Generating part %d/%d...\n", part+1, analysis.PartCount)
			batch, err := sess.GenerateNextPart(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("  %d questions\n", len(batch))
		}

		questions := sess.Questions()
		if err := writeOutputs(outDir, questions); err != nil {
			return err
		}
		fmt.Printf("Done: %d questions written to %s\n", len(questions), outDir)
		return nil
	},
}

func init() {
	generateCmd.Flags().String("out", ".", "Output directory for assessment.csv and assessment.json")
}

func loadFile(path string) (textbook.UploadedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return textbook.UploadedFile{}, fmt.Errorf("read %s: %w", path, err)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	if mimeType == "application/pdf" {
		info, err := textbook.InspectPDF(data)
		if err != nil {
			return textbook.UploadedFile{}, fmt.Errorf("%s: %w", path, err)
		}
		fmt.Printf("Loaded %s (%d pages)\n", filepath.Base(path), info.Pages)
	}

	return textbook.UploadedFile{
		Name:       filepath.Base(path),
		MIMEType:   mimeType,
		RawContent: base64.StdEncoding.EncodeToString(data),
	}, nil
}

func writeOutputs(dir string, questions []mcq.MCQ) error {
	csvFile, err := os.Create(filepath.Join(dir, "assessment.csv"))
	if err != nil {
		return err
	}
	defer csvFile.Close()
	if err := export.WriteCSV(csvFile, questions); err != nil {
		return err
	}

	jsonFile, err := os.Create(filepath.Join(dir, "assessment.json"))
	if err != nil {
		return err
	}
	defer jsonFile.Close()
	return export.WriteJSON(jsonFile, questions)
}
