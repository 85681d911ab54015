package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/resfit/resfit/internal/cache"
	"github.com/resfit/resfit/internal/document"
	"github.com/resfit/resfit/internal/ai/gemini"
	"github.com/resfit/resfit/internal/extract"
	"github.com/resfit/resfit/internal/logger"
	"github.com/resfit/resfit/internal/pipeline"
	"github.com/resfit/resfit/internal/render"
	"github.com/resfit/resfit/internal/scrape"
	"github.com/resfit/resfit/internal/secrets"
	"github.com/resfit/resfit/internal/tailor"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"

	defaultOutputDir = "output"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the resfit main command",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("resume", "r", "", "path to the resume file (.pdf, .md or .txt)")
	runCmd.Flags().StringP("job-url", "u", "", "url of the job posting to tailor against")
	runCmd.Flags().StringP("job-text-file", "t", "", "file with the job posting text, for postings that cannot be fetched")
	runCmd.Flags().StringP("output-dir", "o", "", "directory for the rendered resume. Default is ./"+defaultOutputDir)
	runCmd.Flags().IntP("concurrency", "c", 0, "maximum sections tailored at once")
	runCmd.Flags().Bool("tex-only", false, "write the .tex file but skip the pdflatex run")
	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before rendering")

	viper.BindPFlag("resume", runCmd.Flags().Lookup("resume"))
	viper.BindPFlag("output-dir", runCmd.Flags().Lookup("output-dir"))
	viper.BindPFlag("ai.concurrency", runCmd.Flags().Lookup("concurrency"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logg.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		config = &Config{}
	}

	logg.Info("starting resfit", zap.String("version", version))

	pretty, _ := json.MarshalIndent(config, "", "  ")
	logg.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	resumePath := strings.TrimSpace(viper.GetString("resume"))
	if resumePath == "" {
		logg.Fatal("a resume file is required", zap.String("hint", "pass --resume or set 'resume' in the configuration file"))
	}

	jobURL := cmd.Flag("job-url").Value.String()
	jobText, err := readJobTextFile(cmd.Flag("job-text-file").Value.String())
	if err != nil {
		logg.Fatal("reading job posting text", zap.Error(err))
	}

	apiKey, err := resolveAPIKey(config)
	if err != nil {
		logg.Fatal(
			"loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY_FILE or the 'ai.gemini.api-key-file' key in the configuration file"),
		)
	}

	gcfg := geminiConfig(config)
	client, err := gemini.NewClient(ctx, apiKey, gcfg.Model, gcfg.MaxRetries, logg)
	if err != nil {
		logg.Fatal("creating gemini client", zap.Error(err))
	}

	outputDir := viper.GetString("output-dir")
	if outputDir == "" {
		outputDir = defaultOutputDir
	}
	cacheDir := config.CacheDir
	if cacheDir == "" {
		cacheDir = outputDir
	}

	store, err := cache.Open(cacheDir, client.Model())
	if err != nil {
		logg.Fatal("opening extraction cache", zap.Error(err))
	}

	scrapeCfg, err := scrape.DecodeConfig(config.Scrape)
	if err != nil {
		logg.Fatal("reading scrape config", zap.Error(err))
	}

	notify := func(message string) {
		fmt.Println(message)
	}

	extractor, err := extract.New(client, extract.Deps{
		Cache:   store,
		Fetcher: scrape.NewFetcher(scrapeCfg, logg),
		Logger:  logg,
		Notify:  notify,
	})
	if err != nil {
		logg.Fatal("creating extractor", zap.Error(err))
	}

	scheduler, err := tailor.NewScheduler(client, tailor.Options{
		Concurrency: viper.GetInt("ai.concurrency"),
		Logger:      logg,
		Notify:      notify,
	})
	if err != nil {
		logg.Fatal("creating scheduler", zap.Error(err))
	}

	renderer := render.NewRenderer(outputDir, render.Options{
		SkipPDF: cmd.Flag("tex-only").Value.String() == "true",
		Logger:  logg,
	})

	var approve func(*document.TailoredResume) (bool, error)
	if cmd.Flag("auto-approve").Value.String() == "false" {
		approve = confirmRender
	}

	p, err := pipeline.New(pipeline.Deps{
		Extractor: extractor,
		Tailorer:  scheduler,
		Renderer:  renderer,
		Closer:    store,
		Logger:    logg,
		Notify:    notify,
		Approve:   approve,
	})
	if err != nil {
		logg.Fatal("creating pipeline", zap.Error(err))
	}

	resumeText, err := pipeline.LoadResumeText(resumePath)
	if err != nil {
		logg.Fatal("loading resume", zap.Error(err))
	}

	result, err := p.Run(ctx, pipeline.Input{
		ResumeText: resumeText,
		JobURL:     jobURL,
		JobText:    jobText,
	})
	if err != nil {
		logg.Fatal("tailoring run failed", zap.Error(err))
	}

	if len(result.Failed) > 0 {
		logg.Warn("some sections were omitted", zap.Strings("sections", result.Failed))
	}

	if result.PDFPath != "" {
		notify(fmt.Sprintf("Tailored resume written to %s", result.PDFPath))
	} else if result.TexPath != "" {
		notify(fmt.Sprintf("LaTeX source written to %s", result.TexPath))
	}
}

func confirmRender(tailored *document.TailoredResume) (bool, error) {
	sections := len(tailored.WorkExperience) + len(tailored.Education) + len(tailored.SkillSections) +
		len(tailored.Projects) + len(tailored.Certifications) + len(tailored.Achievements) +
		len(tailored.ResearchWorks) + len(tailored.CustomSections)

	prompt := promptui.Select{
		Label: fmt.Sprintf("Tailoring produced %d section entries. Render the PDF?", sections),
		Items: []string{PromptYes, PromptNo},
	}

	_, action, err := prompt.Run()
	if err != nil {
		return false, err
	}

	return action == PromptYes, nil
}

func readJobTextFile(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return string(raw), nil
}

func resolveAPIKey(config *Config) (string, error) {
	keyFile := strings.TrimSpace(viper.GetString("ai.gemini.api-key-file"))
	if keyFile == "" && config.AI != nil && config.AI.Gemini != nil {
		keyFile = strings.TrimSpace(config.AI.Gemini.APIKeyFile)
	}

	return secrets.Load(secrets.Source{
		Name: "gemini api key",
		Env:  "GEMINI_API_KEY",
		File: keyFile,
	})
}

func geminiConfig(config *Config) *GeminiConfig {
	if config.AI == nil || config.AI.Gemini == nil {
		return &GeminiConfig{}
	}
	return config.AI.Gemini
}
