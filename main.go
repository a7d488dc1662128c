package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"heatfem/calculator"
	"heatfem/fem"
	"heatfem/material"
	"heatfem/model"
	"heatfem/server"
)

var (
	configPath string
	addr       string
	verbose    bool
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

var rootCmd = &cobra.Command{
	Use:   "heatfem",
	Short: "Transient radial heat conduction with 1D finite elements",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Run the simulation and print nodal temperatures for every time step",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSimulation()
		if err != nil {
			return err
		}
		if verbose {
			s.SetObserver(fem.NewLogObserver(log.StandardLogger()))
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return s.Run(ctx, func(result model.StepResult) {
			fmt.Fprintf(cmd.OutOrStdout(), "%8.2f", result.Time)
			for _, t := range result.Temperatures {
				fmt.Fprintf(cmd.OutOrStdout(), " %10.4f", t)
			}
			fmt.Fprintln(cmd.OutOrStdout())
		})
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve simulations over websocket",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(); err != nil {
			return err
		}
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
		s := server.NewServer(addr, upgrader, func() (calculator.Calculator, error) {
			return newSimulation()
		})
		return s.Serve()
	},
}

func loadConfig() (calculator.Config, error) {
	if configPath == "" {
		return calculator.DefaultConfig(), nil
	}
	return calculator.LoadConfig(configPath)
}

func newSimulation() (*calculator.Simulation, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	materials := material.Default()
	if cfg.MaterialFile != "" {
		if materials, err = material.Load(cfg.MaterialFile); err != nil {
			return nil, err
		}
	}
	return calculator.NewSimulation(cfg, materials)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "ini config file, defaults are used when empty")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log matrixes of every phase")
	serveCmd.Flags().StringVar(&addr, "addr", ":9000", "listen address")
	rootCmd.AddCommand(solveCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
