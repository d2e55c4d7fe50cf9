package vocabulary

import "sync"

const (
	TopicDataStructures = "Data Structures"
	TopicNetworking     = "Computer Networking"
)

var defaultCategories = []Category{
	{
		ID:          "array",
		DisplayName: "Array",
		Topic:       TopicDataStructures,
		SurfaceForms: []string{
			"array",
			"arrays",
			"array insertion",
			"array deletion",
			"array traversal",
			"array sorting",
			"array searching",
			"dynamic array",
			"static array",
			"array operations",
			"insert array",
			"delete array",
			"array element",
			"array index",
			"array size",
			"array length",
			"one dimensional array",
			"2d array",
			"multidimensional array",
		},
	},
	{
		ID:          "binary_tree",
		DisplayName: "Binary Tree",
		Topic:       TopicDataStructures,
		SurfaceForms: []string{
			"binary tree",
			"binary trees",
			"btree",
			"b-tree",
			"tree traversal",
			"inorder",
			"preorder",
			"postorder",
			"tree insertion",
			"tree deletion",
			"binary search tree",
			"bst",
			"tree node",
			"root node",
			"leaf node",
			"tree height",
			"tree depth",
			"left child",
			"right child",
			"parent node",
			"tree balancing",
			"avl tree",
		},
	},
	{
		ID:          "linked_list",
		DisplayName: "Linked List",
		Topic:       TopicDataStructures,
		SurfaceForms: []string{
			"linked list",
			"linked lists",
			"singly linked list",
			"doubly linked list",
			"circular linked list",
			"list insertion",
			"list deletion",
			"list traversal",
			"head node",
			"tail node",
			"next pointer",
			"previous pointer",
			"node insertion",
			"node deletion",
			"list operations",
			"linked list node",
		},
	},
	{
		ID:          "stack",
		DisplayName: "Stack",
		Topic:       TopicDataStructures,
		SurfaceForms: []string{
			"stack",
			"stacks",
			"lifo",
			"last in first out",
			"push operation",
			"pop operation",
			"stack overflow",
			"stack underflow",
			"stack pointer",
			"call stack",
			"stack top",
			"stack bottom",
			"stack operations",
			"push",
			"pop",
			"peek",
			"stack implementation",
		},
	},
	{
		ID:          "queue",
		DisplayName: "Queue",
		Topic:       TopicDataStructures,
		SurfaceForms: []string{
			"queue",
			"queues",
			"fifo",
			"first in first out",
			"enqueue",
			"dequeue",
			"circular queue",
			"priority queue",
			"queue operations",
			"front",
			"rear",
			"queue front",
			"queue rear",
			"queue implementation",
			"double ended queue",
			"deque",
		},
	},
	{
		ID:          "merge_sort",
		DisplayName: "Merge Sort",
		Topic:       TopicDataStructures,
		SurfaceForms: []string{
			"merge sort",
			"merge sorting",
			"mergesort",
			"divide and conquer",
			"merge operation",
			"sorting algorithm",
			"merge step",
			"divide step",
			"conquer step",
			"merge sort algorithm",
			"stable sorting",
			"external sorting",
		},
	},
	{
		ID:          "osi_model",
		DisplayName: "OSI Model",
		Topic:       TopicNetworking,
		SurfaceForms: []string{
			"osi model",
			"osi",
			"seven layer model",
			"physical layer",
			"data link layer",
			"network layer",
			"transport layer",
			"session layer",
			"presentation layer",
			"application layer",
			"layer 1",
			"layer 2",
			"layer 3",
			"layer 4",
			"layer 5",
			"layer 6",
			"layer 7",
			"osi layers",
			"seven layers",
			"network model",
			"protocol stack",
		},
	},
	{
		ID:          "client_server",
		DisplayName: "Client Server",
		Topic:       TopicNetworking,
		SurfaceForms: []string{
			"client server",
			"client-server",
			"client server model",
			"client server architecture",
			"server",
			"client",
			"request response",
			"server client",
			"distributed system",
			"network architecture",
			"client application",
			"server application",
			"web server",
			"database server",
			"file server",
		},
	},
	{
		ID:          "firewall",
		DisplayName: "Firewall",
		Topic:       TopicNetworking,
		SurfaceForms: []string{
			"firewall",
			"firewalls",
			"network firewall",
			"packet filtering",
			"security firewall",
			"firewall rules",
			"network security",
			"access control",
			"traffic filtering",
			"security barrier",
			"network protection",
			"intrusion prevention",
			"packet inspection",
			"stateful firewall",
			"stateless firewall",
		},
	},
	{
		ID:          "router",
		DisplayName: "Router",
		Topic:       TopicNetworking,
		SurfaceForms: []string{
			"router",
			"routers",
			"network router",
			"routing",
			"routing table",
			"routing protocol",
			"packet routing",
			"network routing",
			"route",
			"routing algorithm",
			"gateway",
			"network gateway",
			"routing decision",
			"hop",
			"next hop",
			"routing path",
		},
	},
}

var defaultStopWords = []string{
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of",
	"with", "by", "is", "are", "was", "were", "be", "been", "have", "has",
	"had", "do", "does", "did", "will", "would", "could", "should", "may",
	"might", "can", "this", "that", "these", "those",
}

var defaultSynonyms = map[string][]string{
	"insertion": {"insert", "add", "adding", "append", "put"},
	"deletion":  {"delete", "remove", "removing", "erase", "clear"},
	"traversal": {"traverse", "walk", "visit", "iterate"},
	"searching": {"search", "find", "lookup", "locate"},
	"sorting":   {"sort", "order", "arrange", "organize"},
}

var (
	defaultTable     *Table
	defaultTableOnce sync.Once
)

// Default returns the built-in table of ten categories. It is built once per
// process and shared.
func Default() *Table {
	defaultTableOnce.Do(func() {
		t, err := New(defaultCategories, defaultStopWords, defaultSynonyms)
		if err != nil {
			panic("vocabulary: built-in table is invalid: " + err.Error())
		}
		defaultTable = t
	})
	return defaultTable
}
