package main

import (
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/wrenzh/agrolux-panel/cmd"
)

func main() {
	app := &cli.App{
		Name:   "agrolux-panel",
		Usage:  "gateway between the greenhouse lighting backend and the wall panel",
		Action: cmd.PanelCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "lighting-url",
				EnvVars: []string{"LIGHTING_API_URL"},
			},
			&cli.Float64Flag{
				Name:    "serial-timeout",
				EnvVars: []string{"LIGHTING_SERIAL_TIMEOUT"},
			},
			&cli.StringFlag{
				Name:    "mqtt-host",
				EnvVars: []string{"MQTT_HOST"},
			},
			&cli.StringFlag{
				Name:    "mqtt-user",
				EnvVars: []string{"MQTT_USERNAME"},
			},
			&cli.StringFlag{
				Name:    "mqtt-pass",
				EnvVars: []string{"MQTT_PASSWORD"},
			},
			&cli.StringFlag{
				Name:    "database-url",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.StringFlag{
				Name:    "migrations-folder",
				EnvVars: []string{"MIGRATIONS_FOLDER"},
			},
			&cli.IntFlag{
				Name:    "retention-days",
				EnvVars: []string{"RETENTION_DAYS"},
			},
			&cli.StringFlag{
				Name:    "listen-address",
				EnvVars: []string{"LISTEN_ADDRESS"},
			},
			&cli.StringFlag{
				Name:    "password-hash",
				EnvVars: []string{"PANEL_PASSWORD_HASH"},
			},
			&cli.StringFlag{
				Name:    "jwt-secret",
				EnvVars: []string{"JWT_SECRET"},
			},
			&cli.StringFlag{
				Name:    "poll-schedule",
				EnvVars: []string{"POLL_SCHEDULE"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "discover",
				Usage:  "stream a LoRa network discovery scan to stdout",
				Action: cmd.DiscoverCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "lighting-url",
						EnvVars: []string{"LIGHTING_API_URL"},
						Value:   "http://127.0.0.1:8000",
					},
					&cli.Float64Flag{
						Name:    "serial-timeout",
						EnvVars: []string{"LIGHTING_SERIAL_TIMEOUT"},
						Value:   0.5,
					},
					&cli.StringFlag{
						Name:  "uid",
						Usage: "transmitter UID, resolved through the directory when empty",
					},
					&cli.DurationFlag{
						Name:  "scan-timeout",
						Value: 2 * time.Minute,
					},
				},
			},
			{
				Name:   "modbus-probe",
				Usage:  "read holding registers off a Modbus TCP gateway",
				Action: cmd.ProbeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "address",
						Usage:    "host:port of the Modbus TCP gateway",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "slave-id",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "register",
						Value: 0,
					},
					&cli.IntFlag{
						Name:  "count",
						Value: 10,
					},
				},
			},
			{
				Name:   "hash-password",
				Usage:  "print the bcrypt hash for PANEL_PASSWORD_HASH",
				Action: cmd.HashPasswordCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "password",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
