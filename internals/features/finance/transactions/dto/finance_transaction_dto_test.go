package dto

import (
	"errors"
	"testing"

	"desaku_backend/internals/helpers/apperror"

	"github.com/bytedance/sonic"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want Amount
		ok   bool
	}{
		{"50000000", 50_000_000, true},
		{`"5000000"`, 5_000_000, true},
		{" 1200.00 ", 1200, true},
		{"0", 0, false},
		{"-10", 0, false},
		{"12.5", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"1000000000000000", 1_000_000_000_000_000, true},
		{"1000000000000001", 0, false},
		{"9223372036854775807", 0, false},
		{"18446744073709551617", 0, false},
		{"1e30", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Errorf("ParseAmount(%q) = %d, %v", tc.in, got, err)
			}
			continue
		}
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("ParseAmount(%q) should fail validation, got %v", tc.in, err)
		}
	}
}

func TestCreateTransactionRequestJSON(t *testing.T) {
	var req CreateTransactionRequest
	body := `{"finance_transaction_date":"2025-01-02","finance_transaction_type":"expense","finance_transaction_amount":"5000000"}`
	if err := sonic.Unmarshal([]byte(body), &req); err != nil {
		t.Fatal(err)
	}
	if req.Amount != 5_000_000 {
		t.Fatalf("amount = %d", req.Amount)
	}
	d, err := req.ParsedDate()
	if err != nil || d.Day() != 2 {
		t.Fatalf("date = %v, %v", d, err)
	}
}
