package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/joshuapare/prefkit/pkg/config"
	"github.com/joshuapare/prefkit/pref/medium"
)

// hexUint32 is a uint32 flag that accepts decimal or 0x-prefixed hex and
// prints as hex.
type hexUint32 uint32

func (h *hexUint32) String() string { return fmt.Sprintf("0x%08x", uint32(*h)) }

func (h *hexUint32) Set(s string) error {
	v, err := config.ParseTypeTag(s)
	if err != nil {
		return err
	}
	*h = hexUint32(v)
	return nil
}

func (h *hexUint32) Type() string { return "uint32" }

// classValue is a medium class flag. The zero value means "not set".
type classValue struct {
	class medium.Class
	set   bool
}

func (c *classValue) String() string {
	if !c.set {
		return ""
	}
	return c.class.String()
}

func (c *classValue) Set(s string) error {
	class, err := medium.ParseClass(s)
	if err != nil {
		return err
	}
	c.class, c.set = class, true
	return nil
}

func (c *classValue) Type() string { return "class" }

// classes returns the class as MakePreference's optional argument.
func (c *classValue) classes() []medium.Class {
	if !c.set {
		return nil
	}
	return []medium.Class{c.class}
}

var (
	_ pflag.Value = (*hexUint32)(nil)
	_ pflag.Value = (*classValue)(nil)
)

// regionFlags select an ad-hoc region when no layout name is given.
type regionFlags struct {
	typeTag hexUint32
	words   int
	class   classValue
}

func (f *regionFlags) register(fs *pflag.FlagSet) {
	fs.Var(&f.typeTag, "type", "Type tag of an ad-hoc region (decimal or 0x hex)")
	fs.IntVar(&f.words, "words", 0, "Payload words of an ad-hoc region")
	fs.Var(&f.class, "class", "Medium class of an ad-hoc region (rtc, flash, nvs)")
}

func (f *regionFlags) reset() {
	*f = regionFlags{}
}
