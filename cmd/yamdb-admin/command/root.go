package command

// root.go defines the root command for yamdb-admin and the shared
// connection to the database every subcommand works against.

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"yamdb/database"
	"yamdb/internal/config"
	"yamdb/internal/logging"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/microservices/http-api/service"
)

var (
	pageSize int  // rows per listing page
	noColor  bool // disable colored output
)

// app is what a subcommand gets to work with.
type app struct {
	migrate    func() error
	users      service.UserService
	categories service.CategoryService
	genres     service.GenreService
	titles     service.TitleService
}

// connect opens the database named by the environment. Tests replace it.
var connect = func() (*app, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	logging.Init(logging.Config{Level: "warn", Format: "text"})

	db, err := database.ConnectDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}

	categories := repository.NewCategoryRepo(db)
	genres := repository.NewGenreRepo(db)
	a := &app{
		migrate:    func() error { return database.Migrate(db) },
		users:      service.NewUserService(repository.NewUserRepository(db)),
		categories: service.NewCategoryService(categories),
		genres:     service.NewGenreService(genres),
		titles:     service.NewTitleService(repository.NewTitleRepo(db), categories, genres),
	}
	return a, func() { _ = sqlDB.Close() }, nil
}

// run opens the app for the duration of fn.
func run(fn func(a *app, out io.Writer, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, closeFn, err := connect()
		if err != nil {
			return err
		}
		defer closeFn()
		return fn(a, cmd.OutOrStdout(), args)
	}
}

var (
	success = color.New(color.FgGreen)
	header  = color.New(color.FgCyan, color.Bold)
	muted   = color.New(color.FgHiBlack)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "yamdb-admin",
	Short: "yamdb-admin - YaMDb administration tool",
	Long: `yamdb-admin manages a YaMDb database directly, without going through the API.
It reads the same environment (DATABASE_URL, .env) as the api server and can:
- create or update the schema
- create superusers and change user roles
- browse titles, categories and genres

Use "yamdb-admin command --help" to see the flags of a command.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVar(&pageSize, "page-size", 20, "rows per page for listings")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createSuperuserCmd)
	rootCmd.AddCommand(setRoleCmd)
	rootCmd.AddCommand(titlesCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(genresCmd)
}
