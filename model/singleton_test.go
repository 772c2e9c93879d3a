package model

import "testing"

func TestGlobalCreatesDefaultWhenUninstalled(t *testing.T) {
	ResetGlobal()
	t.Cleanup(ResetGlobal)

	r := Global()
	if r == nil {
		t.Fatal("Global() returned nil")
	}
	if Global() != r {
		t.Error("Global() returned a different instance on second call")
	}
}

func TestInitGlobalInstallsRegistry(t *testing.T) {
	ResetGlobal()
	t.Cleanup(ResetGlobal)

	custom := NewDefaultRegistry()
	InitGlobal(custom)

	if Global() != custom {
		t.Error("Global() did not return the installed registry")
	}

	// Later installs lose to the first.
	InitGlobal(NewDefaultRegistry())
	if Global() != custom {
		t.Error("second InitGlobal replaced the installed registry")
	}
}

func TestInitGlobalAfterGlobalIsNoOp(t *testing.T) {
	ResetGlobal()
	t.Cleanup(ResetGlobal)

	first := Global()
	InitGlobal(NewDefaultRegistry())

	if Global() != first {
		t.Error("InitGlobal replaced a registry already created by Global")
	}
}
