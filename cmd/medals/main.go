// Command medals serves and reports the Olympic medal dashboard.
//
//	medals serve  [-config file] [-addr :8000]
//	medals report [-config file] [-country name | -top criterion] [-format json|pretty|text|csv] [-out file]
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/ahrav/go-medals/infrastructure/lookup"
	"github.com/ahrav/go-medals/internal/application"
	"github.com/ahrav/go-medals/internal/ports"
)

const version = "1.0.0"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage())
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(os.Args[2:])
	case "report":
		err = runReport(os.Args[2:], os.Stdout)
	case "version":
		fmt.Printf("medals %s\n", version)
	default:
		fmt.Fprint(os.Stderr, usage())
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() string {
	return `Usage:
  medals serve  [-config medals.yaml] [-addr :8000]
  medals report [-config medals.yaml] [-country Norway | -top gold] [-format json|pretty|text|csv] [-out file]
  medals version

Environment:
  MEDALS_CONFIG   config file used when -config is not given
  MEDALS_ADDR     listen address
  MEDALS_DATASET  comma-separated dataset files
  MEDALS_STORE    sqlite preference database
  MEDALS_LOCALE   number formatting locale
`
}

// loadConfig reads the config at path, falling back to $MEDALS_CONFIG and
// then to the defaults.
func loadConfig(path string) (*application.Config, error) {
	if path == "" {
		path = os.Getenv(application.EnvConfigPath)
	}
	loader, err := application.NewConfigLoader()
	if err != nil {
		return nil, err
	}
	return loader.Load(path)
}

// newDashboard builds the record source named by cfg and a dashboard over
// it. The dataset is not loaded yet.
func newDashboard(cfg *application.Config, logger logrus.FieldLogger, observer ports.LoadObserver) (*application.Dashboard, error) {
	source, err := application.NewSourceRegistry().CreateFromConfig(cfg.Dataset)
	if err != nil {
		return nil, err
	}

	opts := []application.Option{application.WithLogger(logger)}
	if observer != nil {
		opts = append(opts, application.WithObserver(observer))
	}
	if cfg.Dashboard.FuzzyThreshold > 0 {
		resolver, err := lookup.NewFuzzyResolver(cfg.Dashboard.FuzzyThreshold)
		if err != nil {
			return nil, err
		}
		opts = append(opts, application.WithResolver(resolver))
	}
	return application.NewDashboard(source, *cfg, opts...)
}
