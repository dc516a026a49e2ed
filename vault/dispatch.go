package vault

import "vaultd.dev/vault/accounts"

// Dispatch routes an instruction by its leading discriminator byte to the
// matching handler (spec §4.8). It does not validate a declared program
// key, and neither does its caller runtime.Engine.Execute: an instruction
// carries no target program id, and ctx.ProgramID is taken as the program
// being invoked.
func Dispatch(ctx Context, acc []*accounts.Info, instructionData []byte) error {
	if len(instructionData) == 0 {
		return vaulterr(ErrInvalidInstructionData, "empty instruction data")
	}
	disc := Discriminator(instructionData[0])
	payload := instructionData[1:]

	switch disc {
	case InstructionCreateVault:
		return CreateVault(ctx, acc, payload)
	case InstructionDepositToVault:
		return Deposit(ctx, acc, payload)
	case InstructionWithdrawFromVault:
		return Withdraw(ctx, acc, payload)
	case InstructionCloseVault:
		return CloseVault(ctx, acc, payload)
	case InstructionBookTransfer:
		return Book(ctx, acc, payload)
	case InstructionExecuteTransfer:
		return Execute(ctx, acc, payload)
	case InstructionUnbookTransfer:
		return Unbook(ctx, acc, payload)
	default:
		return vaulterr(ErrInvalidInstructionData, "unrecognized discriminator")
	}
}
