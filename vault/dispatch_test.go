package vault

import "testing"

// TestDispatchExhaustiveDiscriminator checks every possible leading byte,
// not just the seven valid ones plus one invalid sample: each of the seven
// assigned discriminators must route to its handler (and so fail for a
// reason other than an unrecognized discriminator), and every other byte
// value must be rejected as unrecognized.
func TestDispatchExhaustiveDiscriminator(t *testing.T) {
	valid := map[Discriminator]bool{
		InstructionCreateVault:       true,
		InstructionDepositToVault:    true,
		InstructionWithdrawFromVault: true,
		InstructionCloseVault:        true,
		InstructionBookTransfer:      true,
		InstructionExecuteTransfer:   true,
		InstructionUnbookTransfer:    true,
	}

	for b := 0; b <= 0xff; b++ {
		disc := Discriminator(byte(b))
		err := Dispatch(Context{}, nil, []byte{byte(b)})
		if err == nil {
			t.Fatalf("discriminator %d: Dispatch succeeded with no accounts, want an error", b)
		}
		verr, ok := err.(*Error)
		if !ok {
			t.Fatalf("discriminator %d: error %v is not *vault.Error", b, err)
		}

		if valid[disc] {
			if verr.Code == ErrInvalidInstructionData && verr.Msg == "unrecognized discriminator" {
				t.Fatalf("discriminator %d is a valid instruction but Dispatch treated it as unrecognized", b)
			}
			continue
		}

		if verr.Code != ErrInvalidInstructionData || verr.Msg != "unrecognized discriminator" {
			t.Fatalf("discriminator %d: got code=%s msg=%q, want %s \"unrecognized discriminator\"",
				b, verr.Code, verr.Msg, ErrInvalidInstructionData)
		}
	}
}
