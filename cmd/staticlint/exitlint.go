package main

import (
	"bytes"
	"go/ast"
	"go/printer"
	"go/token"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// ExitAnalyzer reports calls that terminate the process from main.main.
var ExitAnalyzer = &analysis.Analyzer{
	Name:     "exitlint",
	Doc:      "reports os.Exit and log.Fatal calls in main.main",
	Run:      runExitLint,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
}

// forbiddenExits maps an import path to the functions that exit the process.
var forbiddenExits = map[string]map[string]bool{
	"os":  {"Exit": true},
	"log": {"Fatal": true, "Fatalf": true, "Fatalln": true},
}

func render(fset *token.FileSet, x any) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, x); err != nil {
		panic(err)
	}
	return buf.String()
}

func runExitLint(pass *analysis.Pass) (any, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil
	}
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	insp.Preorder([]ast.Node{(*ast.FuncDecl)(nil)}, func(n ast.Node) {
		fn := n.(*ast.FuncDecl)
		if fn.Body == nil || fn.Recv != nil || fn.Name.Name != "main" {
			return
		}
		// go test synthesizes a main package in the build cache.
		if strings.Contains(pass.Fset.File(fn.Pos()).Name(), "go-build") {
			return
		}

		ast.Inspect(fn.Body, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			ident, ok := sel.X.(*ast.Ident)
			if !ok {
				return true
			}
			pkg, ok := pass.TypesInfo.Uses[ident].(*types.PkgName)
			if !ok {
				return true
			}

			path := pkg.Imported().Path()
			if forbiddenExits[path][sel.Sel.Name] {
				pass.Reportf(call.Pos(), "%s.%s call is forbidden in main function: %s",
					path, sel.Sel.Name, render(pass.Fset, call))
			}
			return true
		})
	})

	return nil, nil
}
