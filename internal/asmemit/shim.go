package asmemit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/openspin/spinc/internal/ir"
)

// slotTemplate is a hand-rolled named-slot interpolation engine: it
// replaces every {{name}} occurrence in tmpl with slots[name], leaving
// unmatched placeholders untouched. Spec §9 calls for "a small template
// engine (named-slot string interpolation)" rather than text/template —
// the host object language's wrapper text has no need for
// text/template's {{if}}/{{range}} control-flow directives, only fixed
// substitution into a fixed shape.
func slotTemplate(tmpl string, slots map[string]string) string {
	var b strings.Builder
	for {
		start := strings.Index(tmpl, "{{")
		if start < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		end := strings.Index(tmpl[start:], "}}")
		if end < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		end += start
		name := tmpl[start+2 : end]
		b.WriteString(tmpl[:start])
		if v, ok := slots[name]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(tmpl[start : end+2])
		}
		tmpl = tmpl[end+2:]
	}
}

const (
	mboxSize  = 8
	stackSize = 64
)

// mailboxBoilerplate is the fixed VAR/coginit/lock/invoke/fixup plumbing
// every degraded-mode shim needs regardless of which functions a module
// exposes, grounded line-for-line on the original compiler's
// EmitSpinMethods (original_source/backends/asm/assemble_ir.c).
const mailboxBoilerplate = `VAR
  long __mbox[{{mboxSize}}]   ' mailbox for communicating with remote COG
  long __objmem[{{varLongs}}] ' space for hub data in COG code
  long __stack[{{stackSize}}] ' stack for new COG
  byte __cognum               ' 1 + the ID of the running COG (0 if idle)

PUB __coginit(id)
  if (__cognum == 0)
    __fixup_addresses
    longfill(@__mbox, 0, {{mboxSize}})
    __mbox[1] := {{entryOffset}}
    __mbox[2] := @__objmem
    __mbox[3] := @__stack
    if (id < 0)
      id := cognew(@entry, @__mbox)
    else
      coginit(id, @entry, @__mbox)
    __cognum := id + 1
  return id

PUB __cognew
  return __coginit(-1)

PUB __cogstop
  if __cognum
    __lock
    cogstop(__cognum~ - 1)
    __mbox[0] := 0
    __cognum := 0

PRI __lock
  repeat
    repeat until __mbox[0] == 0
    __mbox[0] := __cognum
  until __mbox[0] == __cognum
  repeat until __mbox[1] == 0

PRI __unlock
  __mbox[0] := 0

PUB __busy
  return __mbox[1] <> 0

PRI __invoke(func, getresult) : r
  __mbox[1] := func - @entry
  if getresult
    repeat until __mbox[1] == 0
    r := __mbox[2]
  __unlock
  return r

PRI __fixup_addresses | ptr, nextptr, temp
  ptr := __fixup_ptr[0]
  repeat while (ptr)
    ptr := @@ptr
    temp := long[ptr]
    nextptr := temp >> 16
    temp := temp & $ffff
    long[ptr] := @@temp
    ptr := nextptr
  __fixup_ptr[0] := 0

`

// MailboxShim renders the host-object-language wrapper that lets Spin or
// BASIC code drive a PASM-resident module running in its own COG through
// a shared mailbox: the fixed boilerplate above plus one stub per public
// function (spec §4.6 "Degraded output mode", SUPPLEMENTED FEATURES #3).
func MailboxShim(mod *ir.Module, isP2 bool) string {
	entryOffset := "@pasm__init - @entry"
	if isP2 {
		entryOffset = "@entry"
	}
	varLongs := (mod.VarSectionSize + 3) / 4
	if varLongs < 1 {
		varLongs = 1
	}

	var b strings.Builder
	b.WriteString(slotTemplate(mailboxBoilerplate, map[string]string{
		"mboxSize":    strconv.Itoa(mboxSize),
		"stackSize":   strconv.Itoa(stackSize),
		"varLongs":    strconv.Itoa(varLongs),
		"entryOffset": entryOffset,
	}))
	for _, fn := range mod.Functions {
		if fn.Visibility == ir.VisibilityPublic {
			b.WriteString(functionStub(fn))
		}
	}
	return b.String()
}

// functionStub renders one public function's remote-invocation stub: a
// synchronous call that polls __invoke for completion when it has one
// result, an asynchronous call that returns immediately when it has no
// results, or an explicit multi-result poll/fetch sequence otherwise (spec §4.6: "either
// polls for completion (synchronous) or returns immediately (asynchronous,
// inferred from whether the function has results)").
func functionStub(fn *ir.Function) string {
	var b strings.Builder
	fmt.Fprintf(&b, "PUB %s(%s)", fn.Name, paramNames(fn.Params))
	if len(fn.Results) > 1 {
		b.WriteString(" : " + resultNames(len(fn.Results)))
	}
	b.WriteString("\n  __lock\n")
	for i, p := range fn.Params {
		fmt.Fprintf(&b, "  __mbox[%d] := %s\n", 2+i, p.Name)
	}

	if len(fn.Results) < 2 {
		synchronous := 0
		if len(fn.Results) == 1 {
			synchronous = 1
		}
		fmt.Fprintf(&b, "  return __invoke(@pasm_%s, %d)\n\n", fn.Name, synchronous)
		return b.String()
	}

	fmt.Fprintf(&b, "  __mbox[1] := @pasm_%s - @entry\n", fn.Name)
	b.WriteString("  repeat until __mbox[1] == 0\n")
	for i := range fn.Results {
		fmt.Fprintf(&b, "  r%d := __mbox[%d]\n", i, 2+i)
	}
	b.WriteString("  return " + resultNames(len(fn.Results)) + "\n\n")
	return b.String()
}

func paramNames(params []ir.Param) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

func resultNames(n int) string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("r%d", i)
	}
	return strings.Join(names, ", ")
}
