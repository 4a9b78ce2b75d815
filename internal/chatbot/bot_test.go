package chatbot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tiendalabs/tienda-api/internal/category"
	"github.com/tiendalabs/tienda-api/internal/product"
)

type stubProducts struct {
	items []product.Product
}

func (s *stubProducts) List(_ context.Context, q product.Query) ([]product.Product, error) {
	var out []product.Product
	for _, p := range s.items {
		if q.Q == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.Q)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProducts) Create(context.Context, *product.Product) error { return nil }
func (s *stubProducts) GetByID(context.Context, string) (*product.Product, error) {
	return nil, product.ErrNotFound
}
func (s *stubProducts) Update(context.Context, *product.Product, bool, bool) error { return nil }
func (s *stubProducts) Deactivate(context.Context, string) (bool, error)           { return false, nil }
func (s *stubProducts) AppendImage(context.Context, string, string) error          { return nil }

type stubCategories struct {
	cats []category.Category
}

func (s *stubCategories) List(context.Context) ([]category.Category, error) { return s.cats, nil }
func (s *stubCategories) Create(context.Context, *category.Category) error  { return nil }
func (s *stubCategories) GetByID(context.Context, string) (*category.Category, error) {
	return nil, category.ErrNotFound
}
func (s *stubCategories) Update(context.Context, *category.Category) error { return nil }
func (s *stubCategories) Delete(context.Context, string) (bool, error)     { return false, nil }

type stubCompleter struct {
	reply string
	err   error
	asked bool
}

func (s *stubCompleter) Complete(context.Context, string) (string, error) {
	s.asked = true
	return s.reply, s.err
}

func newTestBot(gen Completer) *Bot {
	products := &stubProducts{items: []product.Product{
		{ID: "p1", Name: "Botella térmica", Price: "199.90", Stock: 4},
		{ID: "p2", Name: "Termo viajero", Price: "250.00", Stock: 0},
	}}
	categories := &stubCategories{cats: []category.Category{
		{ID: "c1", Name: "Botellas"},
		{ID: "c2", Name: "Termos"},
	}}
	return NewBot(products, categories, gen)
}

func TestReply_PriceQuestion(t *testing.T) {
	bot := newTestBot(nil)
	reply := bot.Reply(context.Background(), "¿Cuál es el precio de la botella?")
	if !strings.Contains(reply, "199.90") {
		t.Errorf("reply=%q", reply)
	}
}

func TestReply_StockQuestion(t *testing.T) {
	bot := newTestBot(nil)
	reply := bot.Reply(context.Background(), "¿Cuánto stock queda de la botella?")
	if !strings.Contains(reply, "4") {
		t.Errorf("reply=%q", reply)
	}

	reply = bot.Reply(context.Background(), "¿Hay stock del termo?")
	if !strings.Contains(reply, "agotado") {
		t.Errorf("reply=%q", reply)
	}
}

func TestReply_Categories(t *testing.T) {
	bot := newTestBot(nil)
	reply := bot.Reply(context.Background(), "¿Qué categorías tienen?")
	if !strings.Contains(reply, "Botellas") || !strings.Contains(reply, "Termos") {
		t.Errorf("reply=%q", reply)
	}
}

func TestReply_UnmatchedGoesToGenerativeAPI(t *testing.T) {
	gen := &stubCompleter{reply: "Claro, hacemos envíos a todo el país."}
	bot := newTestBot(gen)
	reply := bot.Reply(context.Background(), "¿Hacen envíos al interior?")
	if !gen.asked {
		t.Fatal("generative API was not consulted")
	}
	if reply != gen.reply {
		t.Errorf("reply=%q", reply)
	}
}

func TestReply_FallsBackWhenAPIUnavailable(t *testing.T) {
	gen := &stubCompleter{err: errors.New("api down")}
	bot := newTestBot(gen)
	reply := bot.Reply(context.Background(), "¿Hacen envíos al interior?")
	if reply != fallbackReply {
		t.Errorf("reply=%q, want canned fallback", reply)
	}

	// no completer configured at all
	bot = newTestBot(nil)
	if reply := bot.Reply(context.Background(), "algo sin sentido"); reply != fallbackReply {
		t.Errorf("reply=%q, want canned fallback", reply)
	}
}
