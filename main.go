package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qrmenu-backend/config"
	"qrmenu-backend/routes"
	"qrmenu-backend/utils"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "qrmenu",
	Short: "QR restaurant ordering backend",
	RunE:  runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server and the subscription scheduler",
	RunE:  runServe,
}

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the platform admin account if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, configPath)
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		admin := a.cfg.Admin
		if admin.Password == "" {
			return errors.New("admin.password (ADMIN_PASSWORD) must be set")
		}
		account, created, err := a.auth.EnsureAdmin(ctx, admin.Email, admin.Password, admin.FullName)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("Admin user created: %s\n", account.Email)
		} else {
			fmt.Printf("Admin user already exists: %s\n", account.Email)
		}
		return nil
	},
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List every registered route",
	Run: func(cmd *cobra.Command, args []string) {
		gin.SetMode(gin.ReleaseMode)
		printRoutes(routes.SetupRouter(routes.Deps{
			Server: config.ServerConfig{AllowedOrigins: []string{"*"}, APIPrefix: "/api"},
			Logger: zap.NewNop(),
		}))
	},
}

var jwtSecretCmd = &cobra.Command{
	Use:   "jwt-secret",
	Short: "Print a random secret suitable for JWT_SECRET",
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, err := utils.GenerateJWTSecret()
		if err != nil {
			return err
		}
		fmt.Println(secret)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedAdminCmd)
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(jwtSecretCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	if err := a.subscription.StartScheduler(); err != nil {
		return fmt.Errorf("subscription scheduler: %w", err)
	}
	defer a.subscription.Stop()

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:    a.cfg.Server.Addr(),
		Handler: routes.SetupRouter(a.routerDeps()),
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		a.logger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
