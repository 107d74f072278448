// VeilCoin CLI - Command-line interface for key and confirmation utilities
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/veilcoin/core/pkg/account"
	"github.com/veilcoin/core/pkg/curve"
	"github.com/veilcoin/core/pkg/transaction"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("veil-cli v%s\n", version)

	case "help":
		printUsage()

	case "keygen":
		cmdKeygen()

	case "confirm":
		if len(os.Args) != 5 {
			fmt.Println("Usage: veil-cli confirm <confirmation-hex> <tx-pubkey-hex> <view-privkey-hex>")
			os.Exit(1)
		}
		cmdConfirm(os.Args[2], os.Args[3], os.Args[4])

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("VeilCoin CLI")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  version                                      Print version")
	fmt.Println("  keygen                                       Generate an account key")
	fmt.Println("  confirm <conf> <tx-pubkey> <view-privkey>    Check a confirmation number")
}

func cmdKeygen() {
	key, err := account.NewAccountKey(rand.Reader)
	if err != nil {
		fmt.Printf("keygen failed: %v\n", err)
		os.Exit(1)
	}
	addr := key.PublicAddress()

	viewPriv := key.ViewPrivate.Bytes()
	spendPriv := key.SpendPrivate.Bytes()
	viewPub := addr.ViewPublic.Compress()
	spendPub := addr.SpendPublic.Compress()

	fmt.Printf("view private:  %s\n", hex.EncodeToString(viewPriv[:]))
	fmt.Printf("spend private: %s\n", hex.EncodeToString(spendPriv[:]))
	fmt.Printf("view public:   %s\n", hex.EncodeToString(viewPub[:]))
	fmt.Printf("spend public:  %s\n", hex.EncodeToString(spendPub[:]))
}

func cmdConfirm(confHex, txPubHex, viewPrivHex string) {
	confBytes, err := hex.DecodeString(confHex)
	if err != nil || len(confBytes) != 32 {
		fmt.Println("confirmation number must be 32 hex-encoded bytes")
		os.Exit(1)
	}
	var conf transaction.ConfirmationNumber
	copy(conf[:], confBytes)

	txPub, err := decodePoint(txPubHex)
	if err != nil {
		fmt.Printf("bad tx public key: %v\n", err)
		os.Exit(1)
	}
	viewPriv, err := decodeScalar(viewPrivHex)
	if err != nil {
		fmt.Printf("bad view private key: %v\n", err)
		os.Exit(1)
	}

	if conf.Validate(txPub, viewPriv) {
		fmt.Println("confirmation number is valid")
	} else {
		fmt.Println("confirmation number is NOT valid")
		os.Exit(1)
	}
}

func decodePoint(s string) (curve.Point, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return curve.Point{}, err
	}
	c, err := curve.CompressedPointFromBytes(b)
	if err != nil {
		return curve.Point{}, err
	}
	return c.Decompress()
}

func decodeScalar(s string) (curve.Scalar, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return curve.Scalar{}, err
	}
	return curve.ScalarFromBytes(b)
}
