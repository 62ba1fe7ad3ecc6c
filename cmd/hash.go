package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/wrenzh/agrolux-panel/pkg/hasher"
)

// HashPasswordCommand prints the bcrypt hash to configure as
// PANEL_PASSWORD_HASH.
func HashPasswordCommand(ctx *cli.Context) error {
	password := ctx.String("password")
	if password == "" {
		return errors.New("password cannot be empty")
	}
	hash, err := hasher.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}
