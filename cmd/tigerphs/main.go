// Command tigerphs hashes a password with the TigerPHS memory-hard KDF and
// prints the derived key in hex (or base58 with -b58).
//
// Flags mirror original_source/main.c: -h derived key size, -p password,
// -s salt (hex, even digit count), -m memCost, -t timeCost, -M multiplies,
// -P parallelism.
package main

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"github.com/btcsuite/btcutil/base58"
	"github.com/urfave/cli"

	"github.com/waywardgeek/tigerphs"
)

func main() {
	// -h is the derived key size here, so help is only reachable as --help.
	cli.HelpFlag = cli.BoolFlag{Name: "help", Usage: "show help"}
	app := cli.NewApp()
	app.Name = "tigerphs"
	app.Usage = "memory-hard password hashing (TigerPHS)"
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "h",
			Value: tigerphs.DefaultHashSize,
			Usage: "derived key size in bytes",
		},
		cli.StringFlag{
			Name:  "p",
			Value: "password",
			Usage: "password to hash",
		},
		cli.StringFlag{
			Name:  "s",
			Value: "73616c74", // hex("salt")
			Usage: "salt, in hexadecimal, even number of digits",
		},
		cli.IntFlag{
			Name:  "m",
			Value: 0,
			Usage: "memory cost: memory used is about 2^m KiB, but at least one block per worker half",
		},
		cli.IntFlag{
			Name:  "t",
			Value: int(tigerphs.DefaultTimeCost),
			Usage: "time cost",
		},
		cli.IntFlag{
			Name:  "M",
			Value: int(tigerphs.DefaultMultiplies),
			Usage: "multiplies per block of hashing",
		},
		cli.IntFlag{
			Name:  "P",
			Value: int(tigerphs.DefaultParallelism),
			Usage: "parallelism, typically the number of CPU cores",
		},
		cli.BoolFlag{
			Name:  "b58",
			Usage: "print the derived key in base58 instead of hex",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	hashSize := uint32(c.Int("h"))
	password := []byte(c.String("p"))
	salt, err := readHexSalt(c.String("s"))
	if err != nil {
		return err
	}
	memCost := uint8(c.Int("m"))
	timeCost := uint8(c.Int("t"))
	multiplies := uint32(c.Int("M"))
	parallelism := uint32(c.Int("P"))

	fmt.Printf("memCost:%d timeCost:%d multiplies:%d parallelism:%d password:%s salt:%x\n",
		memCost, timeCost, multiplies, parallelism, password, salt)

	hash := make([]byte, hashSize)
	if !tigerphs.HashPasswordExtended(hash, hashSize, password, salt, nil,
		memCost, memCost, timeCost, multiplies, parallelism,
		tigerphs.DefaultBlockSize, tigerphs.DefaultSubBlockSize, false, false) {
		return fmt.Errorf("tigerphs: key stretching failed")
	}

	if c.Bool("b58") {
		fmt.Println(base58.Encode(hash))
	} else {
		fmt.Println(hex.EncodeToString(hash))
	}
	return nil
}

// readHexSalt decodes a hex-encoded salt, rejecting an odd digit count the
// way original_source/main.c's readHexSalt does.
func readHexSalt(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("tigerphs: hex salt string must have an even number of digits")
	}
	salt, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("tigerphs: invalid hex salt: %w", err)
	}
	return salt, nil
}
