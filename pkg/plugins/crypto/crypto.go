// Package crypto quotes the EUR market price of a handful of vaguely
// respectable coins.
package crypto

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golem/pkg/config"
	"golem/pkg/message"
	"golem/pkg/plugin"
	"golem/pkg/plugins/command"
)

const defaultAPIURL = "https://api.cryptowat.ch"

type coin struct {
	name     string
	symbol   string
	exchange string
}

var coins = map[string]coin{
	"btc":  {name: "bitcoin", symbol: "btc", exchange: "bitstamp"},
	"xbt":  {name: "bitcoin", symbol: "btc", exchange: "bitstamp"},
	"eth":  {name: "ethereum", symbol: "eth", exchange: "bitstamp"},
	"doge": {name: "dogecoin", symbol: "doge", exchange: "bittrex"},
	"xrp":  {name: "ripple", symbol: "xrp", exchange: "bittrex"},
	"algo": {name: "algorand", symbol: "algo", exchange: "coinbase-pro"},
}

type Crypto struct {
	plugin.Base
	log    *slog.Logger
	client *http.Client
	apiURL string
}

func Init(_ context.Context, _ *config.Config, logger *slog.Logger) (plugin.Initialised, error) {
	return plugin.Initialised{Plugin: &Crypto{
		log:    logger.With("component", "plugin.crypto"),
		client: &http.Client{Timeout: 10 * time.Second},
		apiURL: defaultAPIURL,
	}}, nil
}

func (c *Crypto) Name() string { return "crypto" }

func (c *Crypto) OnInbound(ctx context.Context, msg message.ChatMessage) (*message.ChatMessage, error) {
	if msg.Command != message.CmdPrivmsg {
		return nil, nil
	}
	target := msg.ResponseTarget()
	if target == "" {
		return nil, nil
	}
	arg, redirect, ok := command.Args("crypto", msg.Body)
	if !ok {
		return nil, nil
	}

	var body string
	co, known := coins[arg]
	if !known {
		body = fmt.Sprintf("Dénomination inconnue: %s. Ici on ne deal qu'avec des monnais vaguement respectueuses comme btc (aka xbt), eth, doge, xrp et algo.", arg)
	} else {
		rate, err := c.rateInEuro(ctx, co)
		if err != nil {
			return nil, fmt.Errorf("crypto rate for %s: %w", co.name, err)
		}
		body = fmt.Sprintf("1 %s vaut %v euros grâce au pouvoir de la spéculation !", co.name, rate)
	}

	reply := message.Privmsg(target, command.WithTarget(body, redirect))
	return &reply, nil
}

type priceResponse struct {
	Result struct {
		Price float64 `json:"price"`
	} `json:"result"`
}

func (c *Crypto) rateInEuro(ctx context.Context, co coin) (float64, error) {
	url := fmt.Sprintf("%s/markets/%s/%seur/price", c.apiURL, co.exchange, co.symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetching %s: status %s", url, resp.Status)
	}

	var parsed priceResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decoding response from %s: %w", url, err)
	}
	c.log.Debug("cryptowatch response", "coin", co.name, "price", parsed.Result.Price)
	return parsed.Result.Price, nil
}
