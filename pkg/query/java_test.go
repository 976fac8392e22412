package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ledgerSource = `package com.acme.bank;

import java.util.List;
import java.util.Map;
import java.io.*;

/** A ledger of entries. */
public class Ledger extends BaseLedger implements Closeable, Auditable {
    private List<Entry> entries;
    private int revision;

    public Ledger(int revision) {
        this.revision = revision;
    }

    // post a new entry
    public void post(Entry e) {
        validate(e);
        entries.add(e);
        Entry copy = new Entry(e);
        validate(copy);
    }

    private void validate(Entry e) {
        if (e == null) {
            throw new IllegalArgumentException();
        }
    }

    static class Entry {
    }
}
`

func newJava(t *testing.T) *Java {
	t.Helper()
	j, err := NewJava()
	require.NoError(t, err)
	t.Cleanup(j.Close)
	return j
}

func TestMethodName(t *testing.T) {
	j := newJava(t)
	assert.Equal(t, "post", j.MethodName("public void post(Entry e) { }"))
	assert.Equal(t, "", j.MethodName("int x = 3;"))
}

func TestClassAndPackageName(t *testing.T) {
	j := newJava(t)
	assert.Equal(t, "Ledger", j.ClassName(ledgerSource))
	assert.Equal(t, "com.acme.bank", j.PackageName(ledgerSource))
	assert.Equal(t, "", j.PackageName("class A {}"))
}

func TestSuperclassAndInterfaces(t *testing.T) {
	j := newJava(t)
	assert.Equal(t, "BaseLedger", j.Superclass(ledgerSource))
	assert.Equal(t, "Box", j.Superclass("class A extends Box<T> {}"))

	ifaces := j.Interfaces(ledgerSource)
	assert.Contains(t, ifaces, "Closeable")
	assert.Contains(t, ifaces, "Auditable")
}

func TestDeclaredMethodsAndCallTargets(t *testing.T) {
	j := newJava(t)
	declared := j.DeclaredMethods(ledgerSource)
	require.Contains(t, declared, "post")
	require.Contains(t, declared, "validate")

	targets := j.CallTargets(declared["post"], declared)
	assert.Contains(t, targets, "validate")
	// entries.add is not a declared method of this class
	assert.NotContains(t, targets, "add")
}

func TestCallingLines(t *testing.T) {
	j := newJava(t)
	declared := j.DeclaredMethods(ledgerSource)

	lines := j.CallingLines(declared["post"], "validate(Entry)", false)
	require.Len(t, lines, 2)
	assert.Less(t, lines[0], lines[1])

	ctorLines := j.CallingLines(declared["post"], "Entry", true)
	require.Len(t, ctorLines, 1)
}

func TestCallingLinesEmptySource(t *testing.T) {
	j := newJava(t)
	assert.Nil(t, j.CallingLines("", "validate()", false))
}

func TestRemoveComments(t *testing.T) {
	j := newJava(t)
	pruned := j.RemoveComments(ledgerSource)
	assert.NotContains(t, pruned, "A ledger of entries")
	assert.NotContains(t, pruned, "post a new entry")
	assert.Contains(t, pruned, "public void post(Entry e)")
}

func TestDeclarationQueries(t *testing.T) {
	j := newJava(t)

	fields := j.FieldDeclarations(ledgerSource)
	require.Len(t, fields, 2)
	assert.Contains(t, fields[0], "entries")

	ctors := j.ConstructorDeclarations(ledgerSource)
	require.Len(t, ctors, 1)
	assert.Contains(t, ctors[0], "Ledger(int revision)")

	methods := j.MethodDeclarations(ledgerSource)
	assert.Len(t, methods, 2)

	imports := j.ImportDeclarations(ledgerSource)
	require.Len(t, imports, 3)
	assert.False(t, j.IsWildcardImport(imports[0]))
	assert.True(t, j.IsWildcardImport(imports[2]))
	assert.Equal(t, "java.util.List", j.ImportedPath(imports[0]))
	assert.Equal(t, "List", j.ImportedSimpleName(imports[0]))
}

func TestClassDeclarations(t *testing.T) {
	j := newJava(t)

	classes := j.ClassDeclarations(ledgerSource)
	assert.Contains(t, classes, "Ledger")
	assert.Contains(t, classes, "Entry")

	inner := j.InnerClassDeclarations(ledgerSource)
	require.Len(t, inner, 1)
	assert.Contains(t, inner[0], "static class Entry")
}

func TestTidy(t *testing.T) {
	in := "class A {\n\n\n    int x;   \n * leftover\n/ leftover\n\n}\n"
	out := Tidy(in)
	assert.NotContains(t, out, "leftover")
	assert.NotContains(t, out, "\n\n\n")
	assert.Contains(t, out, "int x;")
}

func TestSortedLines(t *testing.T) {
	assert.Equal(t, []int{}, SortedLines(nil))
	assert.Equal(t, []int{2, 5, 9}, SortedLines([]int{9, 5, 2, 5, 9}))
}

func TestEngineParsesBareFragments(t *testing.T) {
	j := newJava(t)
	// queries still match inside error-recovery trees for bare method bodies
	lines := j.CallingLines("{\n  helper(1);\n}", "helper()", false)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0])
}
