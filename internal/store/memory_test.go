package store

import (
	"testing"
)

func TestMemory_Cart(t *testing.T) {
	testCartContract(t, NewMemory())
}

func TestMemory_Users(t *testing.T) {
	testUserContract(t, NewMemory())
}

func TestMemory_Conversations(t *testing.T) {
	testConversationContract(t, NewMemory())
}
