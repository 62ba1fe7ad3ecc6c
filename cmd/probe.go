package cmd

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/goburrow/modbus"
	"github.com/urfave/cli/v2"
)

// ProbeCommand reads holding registers off a Modbus TCP gateway. Useful for
// checking a transmitter's Modbus interface actually answers after enabling
// it on the panel.
func ProbeCommand(ctx *cli.Context) error {
	handler := modbus.NewTCPClientHandler(ctx.String("address"))
	handler.SlaveId = byte(ctx.Int("slave-id"))
	handler.Timeout = 5 * time.Second
	if err := handler.Connect(); err != nil {
		return err
	}
	defer handler.Close()

	client := modbus.NewClient(handler)
	start := uint16(ctx.Int("register"))
	count := uint16(ctx.Int("count"))
	results, err := client.ReadHoldingRegisters(start, count)
	if err != nil {
		return err
	}

	for i := 0; i+1 < len(results); i += 2 {
		value := binary.BigEndian.Uint16(results[i:])
		fmt.Printf("register %d: %d\n", start+uint16(i/2), value)
	}
	return nil
}
