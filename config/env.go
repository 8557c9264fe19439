package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Settings read from the environment.
//
// Command line flags take precedence over these values.
type Env struct {
	// Maximum number of trace entries kept by a model. DMX_TRACE_LIMIT
	TraceLimit int
	// Path of the sqlite database the trace is recorded to. Empty means no recording. DMX_TRACE_DB
	TraceDB string
	// Address of the gRPC server. DMX_GRPC_ADDR
	GrpcAddr string
	// Port of the HTTP monitor. 0 picks a free port. DMX_HTTP_PORT
	HTTPPort int
}

func DefaultEnv() Env {
	return Env{
		TraceLimit: 500,
		TraceDB:    "",
		GrpcAddr:   ":7070",
		HTTPPort:   0,
	}
}

// Load the environment, reading the provided .env files first.
//
// Without arguments ".env" in the working directory is read if it exists.
// Variables that are already set are not overwritten by the files.
func LoadEnv(files ...string) (Env, error) {
	if err := godotenv.Load(files...); err != nil && !(len(files) == 0 && errors.Is(err, fs.ErrNotExist)) {
		return Env{}, fmt.Errorf("config: unable to read environment file: %w", err)
	}

	env := DefaultEnv()
	var err error
	if env.TraceLimit, err = intVar("DMX_TRACE_LIMIT", env.TraceLimit); err != nil {
		return Env{}, err
	}
	if env.HTTPPort, err = intVar("DMX_HTTP_PORT", env.HTTPPort); err != nil {
		return Env{}, err
	}
	if v, ok := os.LookupEnv("DMX_TRACE_DB"); ok {
		env.TraceDB = v
	}
	if v, ok := os.LookupEnv("DMX_GRPC_ADDR"); ok && v != "" {
		env.GrpcAddr = v
	}
	return env, nil
}

func intVar(name string, def int) (int, error) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %v must be an integer, got %q", name, v)
	}
	return n, nil
}
