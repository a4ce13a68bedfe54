package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo(MakeFunction)
	require.Equal(t, "MAKE_FUNCTION", info.Name)
	require.Equal(t, FunctionOperand, info.Operand)
	require.Equal(t, MakeFunction, info.Code)
}

func TestGetInfoAllOpcodes(t *testing.T) {
	tests := []struct {
		code    Code
		name    string
		operand Operand
	}{
		{Halt, "HALT", NoOperand},
		{Call, "CALL", NoOperand},
		{TryCall, "TRY_CALL", NameOperand},
		{Return, "RETURN", NoOperand},
		{MakeFunction, "MAKE_FUNCTION", FunctionOperand},
		{Jump, "JUMP", TargetOperand},
		{JumpIfFalse, "JUMP_IF_FALSE", TargetOperand},
		{JumpIfTrue, "JUMP_IF_TRUE", TargetOperand},
		{Push, "PUSH", ValueOperand},
		{TryLoad, "TRY_LOAD", NameOperand},
		{Store, "STORE", NameOperand},
		{DotGet, "DOT_GET", NameOperand},
		{Add, "ADD", NoOperand},
		{Sub, "SUB", NoOperand},
		{Mul, "MUL", NoOperand},
		{Div, "DIV", NoOperand},
		{Eq, "EQ", NoOperand},
		{Neq, "NEQ", NoOperand},
		{Lt, "LT", NoOperand},
		{Gt, "GT", NoOperand},
		{Lte, "LTE", NoOperand},
		{Gte, "GTE", NoOperand},
		{Dup, "DUP", NoOperand},
		{Pop, "POP", NoOperand},
		{StrConcat, "STR_CONCAT", CountOperand},
		{Label, "LABEL", NameOperand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := GetInfo(tt.code)
			require.Equal(t, tt.name, info.Name)
			require.Equal(t, tt.operand, info.Operand)
			require.Equal(t, tt.name, tt.code.String())

			code, ok := Lookup(tt.name)
			require.True(t, ok)
			require.Equal(t, tt.code, code)
		})
	}
}

func TestInvalid(t *testing.T) {
	require.Equal(t, "INVALID", Invalid.String())
	require.Equal(t, "INVALID", Code(99).String())
	_, ok := Lookup("LOAD_FAST")
	require.False(t, ok)
}

func TestIsJump(t *testing.T) {
	require.True(t, Jump.IsJump())
	require.True(t, JumpIfFalse.IsJump())
	require.True(t, JumpIfTrue.IsJump())
	require.False(t, MakeFunction.IsJump())
	require.False(t, Push.IsJump())
}
