package runner

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/astutil"
)

// Query selects the tests of one package.
type Query struct {
	DirPath string
	// File and Offset narrow the run to the test function enclosing the offset.
	// File is empty when the query names a directory or a non-test file.
	Offset int
	File   string
}

// ParseQuery parses the query of the run command.
// * The entire package:        [package directory path]  e.g. ./sample
// * One test at a byte offset: [filepath:#offset]        e.g. increment_test.go:#120
func ParseQuery(q string) (Query, error) {
	path := q
	offset := -1
	if i := strings.LastIndex(q, ":#"); i != -1 {
		o, err := strconv.Atoi(q[i+2:])
		if err != nil {
			return Query{}, fmt.Errorf("invalid offset in the query %q: %w", q, err)
		}
		path = q[:i]
		offset = o
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return Query{}, err
	}
	fi, err := os.Stat(absPath)
	if err != nil {
		return Query{}, err
	}

	if fi.IsDir() {
		if offset != -1 {
			return Query{}, fmt.Errorf("the query %q specifies an offset in a directory", q)
		}
		return Query{DirPath: absPath, Offset: -1}, nil
	}

	query := Query{DirPath: filepath.Dir(absPath), Offset: offset}
	if offset != -1 && strings.HasSuffix(absPath, "_test.go") {
		query.File = absPath
	}
	return query, nil
}

// enclosingTestFunction returns the name of the test function whose declaration encloses
// the offset, or "" when the offset is outside any test function.
func enclosingTestFunction(filePath string, offset int) (string, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filePath, nil, 0)
	if err != nil {
		return "", err
	}

	tokenFile := fset.File(f.Pos())
	if offset < 0 || offset >= tokenFile.Size() {
		return "", fmt.Errorf("invalid offset %d (the size of %s is %d)", offset, filePath, tokenFile.Size())
	}

	pos := tokenFile.Pos(offset)
	path, _ := astutil.PathEnclosingInterval(f, pos, pos)
	for _, node := range path {
		if decl, ok := node.(*ast.FuncDecl); ok && isTestFunction(decl) {
			return decl.Name.Name, nil
		}
	}
	return "", nil
}
