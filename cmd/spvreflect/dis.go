package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gogpu/spvreflect/spirv"
	"github.com/scott-cotton/cli"
)

var tokenColors = map[string]*color.Color{
	spirv.TokenOpcode:  color.New(color.FgBlue, color.Bold),
	spirv.TokenID:      color.New(color.FgYellow),
	spirv.TokenString:  color.New(color.FgGreen),
	spirv.TokenEnum:    color.New(color.FgMagenta),
	spirv.TokenLiteral: color.New(color.FgCyan),
	spirv.TokenComment: color.New(color.Faint),
}

func highlighter(enabled bool) func(class, text string) string {
	if !enabled {
		return nil
	}
	return func(class, text string) string {
		c, ok := tokenColors[class]
		if !ok {
			return text
		}
		c.EnableColor()
		return c.Sprint(text)
	}
}

// Disassemble writes the listing of a SPIR-V binary to w.
func Disassemble(w io.Writer, data []byte, offsets, colored bool) error {
	words, err := spirv.BytesToWords(data)
	if err != nil {
		return err
	}
	return spirv.Disassemble(w, words, spirv.DisasmOptions{
		Offsets:   offsets,
		Highlight: highlighter(colored),
	})
}

func dis(cfg *DisConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Dis.Parse(cc, args)
	if err != nil {
		return err
	}
	file, err := oneFile("dis", args)
	if err != nil {
		return err
	}
	data, err := readFile(cc, file)
	if err != nil {
		return err
	}
	if err := Disassemble(cc.Out, data, cfg.Offsets, useColor(cc.Out, cfg.Color)); err != nil {
		return fmt.Errorf("error disassembling %s: %w", file, err)
	}
	return nil
}
