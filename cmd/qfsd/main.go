package main

import (
	"log"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"

	"qfs/api"
	"qfs/ledger"
	"qfs/rosegold"
)

type options struct {
	Listen     string `short:"l" long:"listen" default:":8080" description:"Address for the HTTP API"`
	Difficulty int    `short:"d" long:"difficulty" default:"4" description:"Leading zero hex characters required of block digests"`
	Reward     string `long:"reward" default:"100" description:"Mining reward credited per sealed block"`
	MasterKey  string `long:"masterkey" description:"Rose Gold master key (generated when omitted)"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	reward, err := decimal.NewFromString(opts.Reward)
	if err != nil {
		log.Fatalf("invalid reward %q: %v", opts.Reward, err)
	}

	cipher, err := rosegold.New([]byte(opts.MasterKey))
	if err != nil {
		log.Fatalf("failed to initialize cipher: %v", err)
	}

	pterm.DefaultSection.Println("Sovereign Treasury Node")
	spinner, _ := pterm.DefaultSpinner.Start("Mining genesis block...")
	chain := ledger.New(ledger.Config{
		Difficulty:   opts.Difficulty,
		MiningReward: reward,
	})
	spinner.Success("Genesis block sealed")

	info := chain.Info()
	pterm.Info.Printfln("Difficulty: %d", info.Difficulty)
	pterm.Info.Printfln("Genesis hash: %s", info.TipHash)
	pterm.Info.Printfln("Cipher fingerprint: %s", cipher.Fingerprint())
	pterm.Success.Printfln("Serving API on %s", opts.Listen)

	server := api.NewServer(chain, cipher, opts.Listen)
	log.Fatal(server.Start())
}
