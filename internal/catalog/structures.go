package catalog

import (
	"fmt"

	"codequest/internal/challenge"
	"codequest/internal/verify"
)

// listFixture is compiled with every linked-list submission. buildList links
// the values and, when pos is not negative, points the tail back at the node
// at index pos.
const listFixture = `type ListNode struct {
	Val  int
	Next *ListNode
}

func buildList(vals []int, pos int) *ListNode {
	var head, tail, loop *ListNode
	for i, v := range vals {
		n := &ListNode{Val: v}
		if head == nil {
			head = n
		} else {
			tail.Next = n
		}
		tail = n
		if i == pos {
			loop = n
		}
	}
	if tail != nil && loop != nil {
		tail.Next = loop
	}
	return head
}
`

func cycleCase(name string, vals []int, pos int, want bool) verify.ScriptCase {
	check := "assert.False"
	if want {
		check = "assert.True"
	}
	list := "nil"
	if vals != nil {
		list = fmt.Sprintf("%#v", vals)
	}
	return verify.ScriptCase{
		Name: name,
		Body: fmt.Sprintf("\thead := buildList(%s, %d)\n\t%s(Solution(head), %q)",
			list, pos, check, fmt.Sprintf("hasCycle(%v, pos=%d) should be %v", vals, pos, want)),
	}
}

func linkedListCycle() challenge.Definition {
	return challenge.Definition{
		ID:   "linked-list-cycle",
		Name: "The Endless Chain",
		Description: `Deep in the Data Structure Mountains, you find a chain of magical links
guarded by a forge spirit.

"Some of these chains loop back on themselves forever," the spirit rumbles.
"Tell me which ones, and the forge is yours."

Write a function called **hasCycle** that accepts the head of a linked list
and reports whether the list contains a cycle. The node type is provided:

    type ListNode struct {
        Val  int
        Next *ListNode
    }

A list has a cycle when some node can be reached again by following Next.
Return true if there is a cycle, false otherwise. An empty list has no cycle.

Can you solve it using O(1) memory?
`,
		Difficulty:       challenge.Medium,
		Category:         challenge.DataStructure,
		XPReward:         75,
		TimeLimitSeconds: 45,
		Area:             DataStructureMountains,
		PrimarySkill:     "linked_lists",
		Entrypoint:       "hasCycle",
		ProblemType:      "linked_list",
		Fixture:          listFixture,
		Template:         "func hasCycle(head *ListNode) bool {\n\treturn false\n}\n",
		Complexity:       verify.Complexity{Time: "O(n)", Space: "O(1)"},
		Hints: []string{
			"Think about what happens when you traverse a list that has a cycle.",
			"A map of visited nodes works, but needs O(n) extra memory.",
			"Try using two pointers that move at different speeds.",
			"If the fast pointer ever meets the slow pointer, there is a cycle (Floyd's tortoise and hare).",
		},
		Solution: `func hasCycle(head *ListNode) bool {
	slow, fast := head, head
	for fast != nil && fast.Next != nil {
		slow = slow.Next
		fast = fast.Next.Next
		if slow == fast {
			return true
		}
	}
	return false
}
`,
		Cases: []verify.TestCase{
			cycleCase("tail_links_to_second", []int{3, 2, 0, -4}, 1, true),
			cycleCase("no_cycle", []int{1, 2, 3, 4}, -1, false),
			cycleCase("self_loop", []int{1}, 0, true),
			cycleCase("single_node", []int{1}, -1, false),
			cycleCase("empty_list", nil, -1, false),
		},
		Feedback: verify.Extra{
			SuccessMessage: "Great job! Your solution correctly detects cycles in linked lists.",
		},
	}
}

func maxStack() challenge.Definition {
	return challenge.Definition{
		ID:   "max-stack",
		Name: "The Dwarven Memory Forge",
		Description: `The dwarves of the Data Structure Mountains stack their ingots in towers,
and the forge master always wants to know the heaviest ingot in the tower.

Design a **MaxStack** type that supports:
- NewMaxStack() *MaxStack creates an empty stack
- Push(x int) pushes x onto the stack
- Pop() int removes the top element and returns it
- Top() int returns the top element without removing it
- GetMax() int returns the largest element in the stack

Pop, Top and GetMax are only called on a non-empty stack.
Every operation should run in O(1) time.
`,
		Difficulty:       challenge.Medium,
		Category:         challenge.DataStructure,
		XPReward:         75,
		TimeLimitSeconds: 45,
		Area:             DataStructureMountains,
		PrimarySkill:     "arrays",
		Entrypoint:       "MaxStack",
		ProblemType:      "stack",
		Template: `type MaxStack struct {
}

func NewMaxStack() *MaxStack {
	return &MaxStack{}
}

func (s *MaxStack) Push(x int) {}

func (s *MaxStack) Pop() int { return 0 }

func (s *MaxStack) Top() int { return 0 }

func (s *MaxStack) GetMax() int { return 0 }
`,
		Complexity: verify.Complexity{Time: "O(1)", Space: "O(n)"},
		Hints: []string{
			"A single slice can push, pop and peek in O(1), but finding the maximum would take O(n).",
			"Keep a second slice that tracks the maximum at each depth of the stack.",
			"When you push x, also push max(x, current max) onto the max slice.",
			"When you pop, pop both slices so the maximum stays in sync.",
		},
		Solution: `type MaxStack struct {
	vals []int
	maxs []int
}

func NewMaxStack() *MaxStack {
	return &MaxStack{}
}

func (s *MaxStack) Push(x int) {
	m := x
	if n := len(s.maxs); n > 0 && s.maxs[n-1] > m {
		m = s.maxs[n-1]
	}
	s.vals = append(s.vals, x)
	s.maxs = append(s.maxs, m)
}

func (s *MaxStack) Pop() int {
	n := len(s.vals) - 1
	x := s.vals[n]
	s.vals = s.vals[:n]
	s.maxs = s.maxs[:n]
	return x
}

func (s *MaxStack) Top() int {
	return s.vals[len(s.vals)-1]
}

func (s *MaxStack) GetMax() int {
	return s.maxs[len(s.maxs)-1]
}
`,
		Cases: []verify.TestCase{
			verify.TraceCase{
				Steps: []verify.Step{
					verify.Construct("MaxStack"),
					verify.Call("Push", 5), verify.Call("Push", 1), verify.Call("Push", 7),
					verify.Call("Top"), verify.Call("GetMax"), verify.Call("Pop"), verify.Call("GetMax"),
				},
				Expected: []any{nil, nil, nil, nil, 7, 7, 7, 5},
			},
			verify.TraceCase{
				Steps: []verify.Step{
					verify.Construct("MaxStack"),
					verify.Call("Push", 2), verify.Call("Push", 0), verify.Call("Push", 3), verify.Call("Push", 0),
					verify.Call("GetMax"), verify.Call("Pop"), verify.Call("GetMax"),
					verify.Call("Pop"), verify.Call("GetMax"),
				},
				Expected: []any{nil, nil, nil, nil, nil, 3, 0, 3, 3, 2},
			},
			verify.TraceCase{
				Steps: []verify.Step{
					verify.Construct("MaxStack"),
					verify.Call("Push", 3), verify.Call("Push", 3),
					verify.Call("GetMax"), verify.Call("Pop"), verify.Call("GetMax"),
				},
				Expected: []any{nil, nil, nil, 3, 3, 3},
			},
		},
	}
}
