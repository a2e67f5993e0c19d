package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"telegram-referral-bot/internal/domain/model"
	"telegram-referral-bot/internal/infra/i18n"
)

type stubCodeUC struct {
	codes   []*model.ReferralCode
	listErr error
}

func (s *stubCodeUC) Request(ctx context.Context, userID int64) (*model.Offer, error) {
	return &model.Offer{CodeID: 1, Value: "STUB", UserID: userID}, nil
}

func (s *stubCodeUC) Submit(ctx context.Context, userID int64, value string) error { return nil }

func (s *stubCodeUC) Remove(ctx context.Context, value string) error { return nil }

func (s *stubCodeUC) List(ctx context.Context) ([]*model.ReferralCode, error) {
	return s.codes, s.listErr
}

func testTranslator(t *testing.T) *i18n.Translator {
	t.Helper()
	tr, err := i18n.NewTranslator(i18n.LocalesFS, "en")
	if err != nil {
		t.Fatalf("translator: %v", err)
	}
	return tr
}

func TestHandleListEmpty(t *testing.T) {
	t.Parallel()

	tr := testTranslator(t)
	facade := NewBotFacade(&stubCodeUC{}, nil)

	out, err := facade.HandleList(context.Background(), tr)
	if err != nil {
		t.Fatalf("HandleList: %v", err)
	}
	if out != tr.T("list_empty") {
		t.Fatalf("empty list rendered as %q", out)
	}
}

func TestHandleListRendersEntries(t *testing.T) {
	t.Parallel()

	tr := testTranslator(t)
	facade := NewBotFacade(&stubCodeUC{codes: []*model.ReferralCode{
		{ID: 1, Value: "AAA1", UsageCount: 4},
		{ID: 2, Value: "BBB2", UsageCount: 0},
	}}, nil)

	out, err := facade.HandleList(context.Background(), tr)
	if err != nil {
		t.Fatalf("HandleList: %v", err)
	}
	if !strings.Contains(out, "AAA1") || !strings.Contains(out, "BBB2") {
		t.Fatalf("listing missing entries: %q", out)
	}
	if !strings.HasPrefix(out, tr.T("list_header")) {
		t.Fatalf("listing missing header: %q", out)
	}
}

func TestHandleListPropagatesError(t *testing.T) {
	t.Parallel()

	tr := testTranslator(t)
	boom := errors.New("store down")
	facade := NewBotFacade(&stubCodeUC{listErr: boom}, nil)

	if _, err := facade.HandleList(context.Background(), tr); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped store error", err)
	}
}

func TestFacadeWithoutUseCase(t *testing.T) {
	t.Parallel()

	facade := NewBotFacade(nil, nil)
	if _, err := facade.RequestCode(context.Background(), 1); err == nil {
		t.Fatal("nil usecase must error, not panic")
	}
	if err := facade.SubmitCode(context.Background(), 1, "X1"); err == nil {
		t.Fatal("nil usecase must error, not panic")
	}
}
