package transaction

import (
	"context"
	"fmt"
	"log"

	"github.com/birthdates/Crypto-Store/coinpayments"
	"github.com/birthdates/Crypto-Store/store"
)

// cardPending reserves the issuance slot while a card is minted, so
// the guard key is never empty between SetNX and the final write.
const cardPending = "pending"

// HandleIPN verifies and applies a webhook notification from the
// gateway. Status records are written without expiry; only this path
// writes them. Duplicate deliveries are idempotent: the gift card is
// issued at most once per transaction id.
func (c *Controller) HandleIPN(ctx context.Context, body []byte, hmacHeader string) (err error) {
	ipn, err := coinpayments.ParseIPN(body, hmacHeader, c.merchantID, c.ipnSecret)
	if err != nil {
		return err
	}

	status := Status{
		Status:     ipn.Status,
		StatusText: coinpayments.StatusMessage(ipn.Status),
		Received:   ipn.Received,
		Amount:     ipn.Amount,
	}

	if ipn.Status == coinpayments.StatusReceived || ipn.Status == coinpayments.StatusComplete {
		status.Card, err = c.issueCard(ctx, ipn)
		if err != nil {
			return fmt.Errorf("failed to issue card: %w", err)
		}
	}

	err = c.store.Set(ctx, store.StatusKey(ipn.TxnID), string(status.Bytes()), 0)
	if err != nil {
		return fmt.Errorf("failed to persist status: %w", err)
	}
	return nil
}

// issueCard mints the gift card for a confirmed payment exactly once
// across processes. The SetNX on the card key is the only guard; the
// store's per-key atomicity is all that's assumed.
func (c *Controller) issueCard(ctx context.Context, ipn coinpayments.IPN) (card string, err error) {
	key := store.CardKey(ipn.TxnID)

	reserved, err := c.store.SetNX(ctx, key, cardPending, 0)
	if err != nil {
		return "", fmt.Errorf("failed to reserve issuance: %w", err)
	}

	if !reserved {
		// A previous delivery won the reservation. Reuse its code;
		// an in-flight issuance elsewhere reads as pending and the
		// winner's status write will carry the card.
		card, err = c.store.Get(ctx, key)
		if err != nil {
			return "", fmt.Errorf("failed to read issued card: %w", err)
		}
		if card == cardPending {
			log.Println("INFO|IPN|ISSUANCE|IN-FLIGHT", ipn.TxnID)
			return "", nil
		}
		return card, nil
	}

	balance, err := c.converter.Convert(ctx, ipn.Amount, ipn.Currency, "USD")
	if err != nil {
		c.releaseCard(ctx, key)
		return "", fmt.Errorf("failed to convert settlement amount: %w", err)
	}

	card, err = c.issuer.Issue(ctx, balance)
	if err != nil {
		c.releaseCard(ctx, key)
		return "", fmt.Errorf("failed to mint card: %w", err)
	}

	err = c.store.Set(ctx, key, card, 0)
	if err != nil {
		return "", fmt.Errorf("failed to record card: %w", err)
	}
	return card, nil
}

// releaseCard drops a reservation whose issuance failed, so the
// gateway's redelivery can retry instead of losing the card forever.
func (c *Controller) releaseCard(ctx context.Context, key string) {
	_, err := c.store.Del(ctx, key)
	if err != nil {
		log.Println("ERROR|IPN|RELEASE", key, err)
	}
}
