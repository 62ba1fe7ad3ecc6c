package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/wrenzh/agrolux-panel/internal/pkg/contxt"
	"github.com/wrenzh/agrolux-panel/internal/pkg/lighting"
	"github.com/wrenzh/agrolux-panel/internal/pkg/model"
)

// DiscoverCommand streams a LoRa network discovery scan to stdout. With no
// --uid it resolves the transmitter through the directory first.
func DiscoverCommand(ctx *cli.Context) error {
	client := lighting.New(ctx.String("lighting-url"),
		lighting.WithSerialTimeout(ctx.Float64("serial-timeout")),
		lighting.WithLogger(zap.L()))

	uid := model.TransmitterUID(ctx.String("uid"))
	if uid == "" {
		cctx := contxt.NewContext(10 * time.Second)
		resolved, err := client.ListCCO(cctx)
		if err != nil {
			return err
		}
		uid = resolved
	}
	if !uid.Valid() {
		return lighting.ErrNoTransmitter
	}

	scanCtx := contxt.NewContext(ctx.Duration("scan-timeout"))
	session, err := client.NetworkDiscovery(scanCtx, uid, func(line string) {
		fmt.Println(line)
	})
	if err != nil {
		return err
	}
	defer session.Close()

	select {
	case <-session.Done():
		return session.Err()
	case <-scanCtx.Done():
		if err := session.Stop(); err != nil {
			return err
		}
		<-session.Done()
		return session.Err()
	}
}
