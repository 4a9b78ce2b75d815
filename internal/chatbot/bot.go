// Package chatbot answers catalog questions. Simple keyword rules resolve
// price/stock/category queries straight from the repositories; anything else
// goes to the generative-text API, with a canned reply as the fallback.
package chatbot

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/tiendalabs/tienda-api/internal/category"
	"github.com/tiendalabs/tienda-api/internal/product"
)

const fallbackReply = "Lo siento, no pude entender tu consulta. ¿Puedes preguntarme por el precio, el stock o las categorías de nuestros productos?"

// Completer is the generative-text slice the bot uses; nil disables it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Bot struct {
	products   product.Repository
	categories category.Repository
	gen        Completer
}

func NewBot(products product.Repository, categories category.Repository, gen Completer) *Bot {
	return &Bot{products: products, categories: categories, gen: gen}
}

// Reply never returns an error to the HTTP layer: the bot degrades to the
// canned reply instead of failing the chat request.
func (b *Bot) Reply(ctx context.Context, message string) string {
	msg := strings.ToLower(strings.TrimSpace(message))
	if msg == "" {
		return fallbackReply
	}

	switch {
	case containsAny(msg, "hola", "hello", "buenas"):
		return "¡Hola! Soy el asistente de la tienda. Pregúntame por precios, stock o categorías."
	case containsAny(msg, "precio", "cuesta", "price"):
		if reply, ok := b.productAnswer(ctx, msg, func(p product.Product) string {
			return fmt.Sprintf("%s cuesta $%s.", p.Name, p.Price)
		}); ok {
			return reply
		}
	case containsAny(msg, "stock", "disponible", "quedan", "hay"):
		if reply, ok := b.productAnswer(ctx, msg, func(p product.Product) string {
			if p.Stock == 0 {
				return fmt.Sprintf("%s está agotado por el momento.", p.Name)
			}
			return fmt.Sprintf("Nos quedan %d unidades de %s.", p.Stock, p.Name)
		}); ok {
			return reply
		}
	case containsAny(msg, "categoria", "categoría", "categorias", "categorías", "category"):
		if reply, ok := b.categoryAnswer(ctx); ok {
			return reply
		}
	}

	if b.gen != nil {
		prompt := fmt.Sprintf("Eres el asistente de una tienda en línea. Responde breve y en español: %s", message)
		if reply, err := b.gen.Complete(ctx, prompt); err == nil {
			return reply
		} else {
			log.Printf("[chatbot] generative API failed: %v", err)
		}
	}
	return fallbackReply
}

// productAnswer matches catalog products against the words of the message.
func (b *Bot) productAnswer(ctx context.Context, msg string, format func(product.Product) string) (string, bool) {
	for _, word := range strings.Fields(msg) {
		word = strings.Trim(word, "¿?¡!.,;:")
		if len(word) < 4 {
			continue
		}
		items, err := b.products.List(ctx, product.Query{Q: word, Limit: 1})
		if err != nil {
			log.Printf("[chatbot] product lookup failed: %v", err)
			return "", false
		}
		if len(items) > 0 {
			return format(items[0]), true
		}
	}
	return "", false
}

func (b *Bot) categoryAnswer(ctx context.Context) (string, bool) {
	cats, err := b.categories.List(ctx)
	if err != nil || len(cats) == 0 {
		return "", false
	}
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	return "Nuestras categorías son: " + strings.Join(names, ", ") + ".", true
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
