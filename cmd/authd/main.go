package main

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/muesli/coral"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"authd/internal/database"
	"authd/internal/server"
)

const dbname = "authd.db"

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	cfg string
)

func main() {
	c := &coral.Command{
		Use:     "authd",
		Short:   "Session-based authentication API server",
		Version: fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:    coral.ExactArgs(0),
	}
	initCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(initCmd)

	serverCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(serverCmd)

	if err := c.Execute(); err != nil {
		logrus.Fatalf("%+v", err)
	}
}

func dbnameWithPath(path string) string {
	if len(path) == 0 {
		return dbname
	}
	return filepath.Join(path, dbname)
}

var (
	initCmd = &coral.Command{
		Use:   "init",
		Short: "Init the database",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf := koanf.New(".")
			if err := konf.Load(file.Provider(cfg), yaml.Parser()); err != nil {
				return err
			}

			return database.StormInit(dbnameWithPath(konf.String("database_path")))
		},
	}

	//
	//
	serverCmd = &coral.Command{
		Use:   "server",
		Short: "Start server",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf := koanf.New(".")
			if err := konf.Load(file.Provider(cfg), yaml.Parser()); err != nil {
				return err
			}

			if konf.String("access_token.secret") == "" {
				return errors.New("access_token secret not found")
			}

			if konf.String("refresh_token.secret") == "" {
				return errors.New("refresh_token secret not found")
			}

			db, err := database.StormOpen(dbnameWithPath(konf.String("database_path")))
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			engine := server.EchoEngine(server.IOC{
				Version:                    version,
				Database:                   db,
				BcryptCost:                 konf.Int("bcrypt_cost"),
				AccessTokenSecret:          konf.MustBytes("access_token.secret"),
				RefreshTokenSecret:         konf.MustBytes("refresh_token.secret"),
				AccessTokenExpirationTime:  konf.MustDuration("access_token.ttl"),
				RefreshTokenExpirationTime: konf.MustDuration("refresh_token.ttl"),
			})
			server.PrintRoutes(engine)

			address := konf.String("address")
			logrus.Infof("Server listening on %s", address)
			return errors.Wrap(engine.Start(address), "could not run server")
		},
	}
)
