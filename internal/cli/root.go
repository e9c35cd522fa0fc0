package cli

import (
	"context"
	"fmt"

	"github.com/martijn/clientcrud/internal/core/repository"
	"github.com/martijn/clientcrud/internal/core/service"
	"github.com/martijn/clientcrud/internal/infrastructure/cache"
	"github.com/martijn/clientcrud/internal/infrastructure/redis"
	"github.com/martijn/clientcrud/internal/infrastructure/sqldb"
	"github.com/martijn/clientcrud/internal/logger"
	"github.com/martijn/clientcrud/pkg/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "dev"

// app carries the state shared by all subcommands of one invocation
type app struct {
	cfgFile string
	cfg     *config.Config
	log     *logrus.Logger
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "clientcrud",
		Short: "clientcrud - client records over HTTP",
		Long: `clientcrud manages client records (name, email, phone, address, city)
backed by SQLite, MySQL or PostgreSQL.

It provides:
- A REST API for listing, reading, saving and deleting clients
- Unique email enforcement on save
- An optional Redis read cache
- Command line access to the same operations`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip config loading for commands that don't need it
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}

			// Load configuration
			var err error
			a.cfg, err = config.Load(a.cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			a.log = logger.New(a.cfg.LogLevel, a.cfg.LogFormat, cmd.ErrOrStderr())
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is "+config.DefaultConfigPath+")")

	rootCmd.AddCommand(newServerCmd(a))
	rootCmd.AddCommand(newClientsCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "clientcrud %s\n", Version)
		},
	}
}

// initServices initializes all services
func (a *app) initServices(ctx context.Context) (*Services, error) {
	// Initialize database
	db, err := sqldb.New(a.cfg.DBDriver, a.cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	services := &Services{DB: db}

	// Initialize repositories
	var clientRepo repository.ClientRepository = sqldb.NewClientRepository(db)

	if a.cfg.CacheEnabled() {
		store, err := redis.Connect(ctx, a.cfg.RedisAddr, a.cfg.RedisPassword, a.cfg.RedisDB)
		if err != nil {
			services.Close()
			return nil, err
		}
		services.Cache = store
		clientRepo = cache.NewClientRepository(clientRepo, store, a.cfg.CacheTTL, a.log)
		a.log.WithField("addr", a.cfg.RedisAddr).Info("redis cache enabled")
	}

	services.ClientRepo = clientRepo
	services.ClientService = service.NewClientService(clientRepo, a.log)

	return services, nil
}

// Services holds all initialized services
type Services struct {
	DB            *sqldb.DB
	Cache         *redis.Store
	ClientRepo    repository.ClientRepository
	ClientService *service.ClientService
}

// Close closes all resources
func (s *Services) Close() {
	if s.Cache != nil {
		s.Cache.Close()
	}
	if s.DB != nil {
		s.DB.Close()
	}
}
