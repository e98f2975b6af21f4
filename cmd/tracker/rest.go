package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/daszybak/polymarket_tracker/internal/polymarket/clob"
	"github.com/daszybak/polymarket_tracker/internal/polymarket/gamma"
)

func runSearch(cfg *config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("search requires keywords")
	}
	keyword := strings.Join(args, " ")

	result, err := gamma.New(cfg.Polymarket.GammaURL).Search(keyword, 20)
	if err != nil {
		return err
	}
	if len(result.Events) == 0 {
		fmt.Printf("no active events match %q\n", keyword)
		return nil
	}

	fmt.Printf("%d events match %q:\n", len(result.Events), keyword)
	for i, event := range result.Events {
		if i == 10 {
			fmt.Printf("  ... and %d more\n", len(result.Events)-10)
			break
		}
		fmt.Printf("%2d. %s\n", i+1, event.Title)
		fmt.Printf("    slug: %s  volume: $%.0f  markets: %d\n",
			event.Slug, event.VolumeUSD(), len(event.Markets))
	}
	return nil
}

func runEvent(cfg *config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("event requires exactly one slug")
	}

	event, err := gamma.New(cfg.Polymarket.GammaURL).EventBySlug(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", event.Title)
	fmt.Printf("volume: $%.0f  active: %t  markets: %d\n",
		event.VolumeUSD(), event.Active, len(event.Markets))
	for _, market := range event.Markets {
		fmt.Printf("  %s\n", market.Question)
		fmt.Printf("    condition: %s\n", market.ConditionID)
		for _, tokenID := range market.ClobTokenIDs {
			fmt.Printf("    token: %s\n", tokenID)
		}
	}
	return nil
}

func runMarket(cfg *config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("market requires exactly one condition ID")
	}
	conditionID := args[0]

	markets, err := clob.New(cfg.Polymarket.ClobURL).SimplifiedMarkets()
	if err != nil {
		return err
	}

	for _, market := range markets {
		if market.ConditionID != conditionID {
			continue
		}
		fmt.Printf("%s\n", market.ConditionID)
		for _, token := range market.Tokens {
			p := token.Price.Float64()
			fmt.Printf("  %-8s %5.1f%%", token.Outcome, p*100)
			if p > 0 {
				fmt.Printf("  (%.2fx payout)", 1/p)
			}
			fmt.Println()
		}
		return nil
	}
	return fmt.Errorf("condition %s not in the current market sample", conditionID)
}

func runTrending(cfg *config, args []string) error {
	limit := 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("trending limit must be a positive number")
		}
		limit = n
	}

	markets, err := clob.New(cfg.Polymarket.ClobURL).SamplingMarkets()
	if err != nil {
		return err
	}

	shown := 0
	for _, market := range markets {
		if !market.Active || !market.AcceptingOrders {
			continue
		}
		shown++
		fmt.Printf("%2d. %s\n", shown, market.Question)
		fmt.Printf("    condition: %s\n", shortID(market.ConditionID))
		if shown == limit {
			break
		}
	}
	if shown == 0 {
		fmt.Println("no markets are currently accepting orders")
	}
	return nil
}

func runTags(cfg *config) error {
	tags, err := gamma.New(cfg.Polymarket.GammaURL).Tags()
	if err != nil {
		return err
	}
	for _, tag := range tags {
		fmt.Printf("%-24s %s\n", tag.Slug, tag.Label)
	}
	return nil
}

func runInfo(cfg *config) error {
	markets, err := clob.New(cfg.Polymarket.ClobURL).GetAllMarkets()
	if err != nil {
		return err
	}

	active, accepting := 0, 0
	for _, market := range markets {
		if market.Active {
			active++
		}
		if market.AcceptingOrders {
			accepting++
		}
	}
	fmt.Printf("markets: %d total, %d active, %d accepting orders\n",
		len(markets), active, accepting)
	return nil
}

// shortID truncates condition and asset IDs for display.
func shortID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:16] + "..."
}
