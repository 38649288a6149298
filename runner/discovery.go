package runner

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-runt/runt/common/log"
)

// TestFunction is one test case the runner can invoke.
type TestFunction struct {
	Name string
	File string
	Line int
}

var errNoTestFiles = errors.New("no go test files")

// TestFunctions lists the test functions in the package directory.
// A test function is a top-level `func TestXxx(t *testing.T)` in a file whose name
// ends with `_test.go`. `TestMain` is the runner's hook, not a test case, and is skipped.
// The functions are returned in file name and then declaration order.
func TestFunctions(dirPath string) ([]TestFunction, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	var testFileNames []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		if !strings.HasSuffix(entry.Name(), "_test.go") {
			continue
		}

		testFileNames = append(testFileNames, entry.Name())
	}
	if len(testFileNames) == 0 {
		return nil, errNoTestFiles
	}

	fset := token.NewFileSet()
	var testFuncs []TestFunction
	for _, filename := range testFileNames {
		path := filepath.Join(dirPath, filename)
		f, err := parser.ParseFile(fset, path, nil, 0)
		if err != nil {
			log.Printf("failed to parse %s: %v\n", path, err)
			continue
		}

		for _, decl := range f.Decls {
			funcDecl, ok := decl.(*ast.FuncDecl)
			if !ok || !isTestFunction(funcDecl) {
				continue
			}
			testFuncs = append(testFuncs, TestFunction{
				Name: funcDecl.Name.Name,
				File: path,
				Line: fset.Position(funcDecl.Pos()).Line,
			})
		}
	}
	return testFuncs, nil
}

// isTestFunction reports whether the declaration has the shape the test runner invokes:
// no receiver, the Test name prefix and a single *testing.T parameter.
func isTestFunction(decl *ast.FuncDecl) bool {
	if decl.Recv != nil {
		return false
	}
	name := decl.Name.Name
	if !strings.HasPrefix(name, "Test") || name == "TestMain" {
		return false
	}

	params := decl.Type.Params
	if params == nil || len(params.List) != 1 || len(params.List[0].Names) > 1 {
		return false
	}
	star, ok := params.List[0].Type.(*ast.StarExpr)
	if !ok {
		return false
	}
	sel, ok := star.X.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	return sel.Sel.Name == "T"
}
