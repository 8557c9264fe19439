package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/document"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/engine"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/monitoring"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/server"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/session"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve an interactive session over gRPC and HTTP.",
	Long: "`serve --algorithm RA --processes 3 --open` starts a session, serves it over gRPC " +
		"and opens the HTTP monitor in the browser. Stops on interrupt.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, rec, err := modelOptions(cmd)
		if err != nil {
			return err
		}
		if rec != nil {
			defer rec.Close()
		}
		m, err := initialModel(cmd, opts)
		if err != nil {
			return err
		}
		s := session.New(m, opts...)

		if noHTTP, _ := cmd.Flags().GetBool("no-http"); !noHTTP {
			port := env.HTTPPort
			if cmd.Flags().Changed("http") {
				port, _ = cmd.Flags().GetInt("http")
			}
			mon := monitoring.NewMonitor(s).WithPortNumber(port)
			mon.StartServer()
			if open, _ := cmd.Flags().GetBool("open"); open {
				if err := mon.OpenBrowser(); err != nil {
					log.Printf("Unable to open browser: %v", err)
				}
			}
		}

		addr := env.GrpcAddr
		if cmd.Flags().Changed("grpc") {
			addr, _ = cmd.Flags().GetString("grpc")
		}
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return server.New(s, log.Default()).Serve(ctx, lis)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("algorithm", "a", document.AlgorithmTokenRing, "TokenRing or RA")
	serveCmd.Flags().IntP("processes", "n", 3, "Number of processes")
	serveCmd.Flags().String("load", "", "Start from this snapshot or script document instead")
	serveCmd.Flags().String("grpc", ":7070", "Address of the gRPC server")
	serveCmd.Flags().Int("http", 0, "Port of the HTTP monitor. 0 picks a free port")
	serveCmd.Flags().Bool("no-http", false, "Do not start the HTTP monitor")
	serveCmd.Flags().Bool("open", false, "Open the HTTP monitor in the browser")
}

func initialModel(cmd *cobra.Command, opts []engine.ModelOption) (*engine.Model, error) {
	if path, _ := cmd.Flags().GetString("load"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		doc, err := document.Parse(raw)
		if err != nil {
			return nil, err
		}
		return engine.Load(doc, opts...)
	}
	name, _ := cmd.Flags().GetString("algorithm")
	n, _ := cmd.Flags().GetInt("processes")
	alg, err := engine.ParseAlgorithm(name)
	if err != nil {
		return nil, err
	}
	return engine.New(alg, n, opts...)
}
