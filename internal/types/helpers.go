package types

// Helper names the runtime helper library is a data contract (spec §6),
// not code this core contains. The type engine only ever needs to know
// the name to insert a call to.
type Helper string

const (
	HelperFloatAdd     Helper = "float_add"
	HelperFloatSub     Helper = "float_sub"
	HelperFloatMul     Helper = "float_mul"
	HelperFloatDiv     Helper = "float_div"
	HelperFloatNeg     Helper = "float_neg"
	HelperFloatAbs     Helper = "float_abs"
	HelperFloatSqrt    Helper = "float_sqrt"
	HelperFloatCmp     Helper = "float_cmp"
	HelperFloatFromInt Helper = "float_fromint"
	HelperFloatFromUns Helper = "float_fromuns"
	HelperFloatToInt   Helper = "float_toint"
	HelperFloatToDouble Helper = "float_todouble"

	HelperDoubleAdd     Helper = "double_add"
	HelperDoubleSub     Helper = "double_sub"
	HelperDoubleMul     Helper = "double_mul"
	HelperDoubleDiv     Helper = "double_div"
	HelperDoubleNeg     Helper = "double_neg"
	HelperDoubleAbs     Helper = "double_abs"
	HelperDoubleSqrt    Helper = "double_sqrt"
	HelperDoubleCmp     Helper = "double_cmp"
	HelperDoubleFromInt Helper = "double_fromint"
	HelperDoubleFromUns Helper = "double_fromuns"
	HelperDoubleToInt   Helper = "double_toint"

	HelperInt64Add  Helper = "int64_add"
	HelperInt64Sub  Helper = "int64_sub"
	HelperInt64MulS Helper = "int64_muls"
	HelperInt64MulU Helper = "int64_mulu"
	HelperInt64DivS Helper = "int64_divs"
	HelperInt64DivU Helper = "int64_divu"
	HelperInt64ModS Helper = "int64_mods"
	HelperInt64ModU Helper = "int64_modu"
	HelperInt64Neg  Helper = "int64_neg"
	HelperInt64CmpS Helper = "int64_cmps"
	HelperInt64CmpU Helper = "int64_cmpu"
	HelperInt64Shl  Helper = "int64_shl"
	HelperInt64Shr  Helper = "int64_shr"
	HelperInt64Sar  Helper = "int64_sar"
	HelperInt64And  Helper = "int64_and"
	HelperInt64Or   Helper = "int64_or"
	HelperInt64Xor  Helper = "int64_xor"
	HelperInt64SignX Helper = "int64_signx"
	HelperInt64ZeroX Helper = "int64_zerox"

	HelperZeroX Helper = "zerox"
	HelperSignX Helper = "signx"

	HelperStringCmp    Helper = "string_cmp"
	HelperStringConcat Helper = "string_concat"
	HelperStructCopy   Helper = "struct_copy"
	HelperGCAllocManaged Helper = "gc_alloc_managed"
	HelperGCFree       Helper = "gc_free"
	HelperFuncPtrCmp   Helper = "funcptr_cmp"
)
