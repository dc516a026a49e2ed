package vault

import "testing"

func TestInWindow(t *testing.T) {
	cases := []struct {
		name      string
		t         int64
		timeframe int64
		now       int64
		want      bool
	}{
		{"empty slot never in window", 0, 100, 1000, false},
		{"zero timeframe means permanent once written", 1, 0, 1_000_000, true},
		{"within window", 900, 200, 1000, true},
		{"exactly at boundary counts as in window", 900, 100, 1000, true},
		{"expired", 700, 100, 1000, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := inWindow(c.t, c.timeframe, c.now); got != c.want {
				t.Fatalf("inWindow(%d,%d,%d) = %v, want %v", c.t, c.timeframe, c.now, got, c.want)
			}
		})
	}
}

func TestAdmitWithdrawalRejectsOnZeroSlots(t *testing.T) {
	buf := make([]byte, VaultDataSize(0))
	vd, err := NewVaultData(buf, Pubkey{}, 0, 100, 0, false, 0, 0)
	if err != nil {
		t.Fatalf("new vault data: %v", err)
	}
	_, err = admitWithdrawal(vd, 1, 100)
	if ErrCodeOf(err) != ErrWithdrawLimitReachedTransactions {
		t.Fatalf("got %v, want WithdrawLimitReachedTransactions", err)
	}
}

// ErrCodeOf extracts the ErrorCode from err for test assertions.
func ErrCodeOf(err error) ErrorCode {
	verr, ok := err.(*Error)
	if !ok {
		return ""
	}
	return verr.Code
}
