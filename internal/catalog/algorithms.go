package catalog

import (
	"codequest/internal/challenge"
	"codequest/internal/verify"
)

func helloWorld() challenge.Definition {
	return challenge.Definition{
		ID:   "hello-world",
		Name: "The Greeting Spell",
		Description: `Welcome to the Algorithm Forest, brave adventurer!

Before you embark on your journey, let's make sure you can communicate with
the magical beings of this realm.

Write a function called **helloWorld** that:
- takes no parameters
- returns the string "Hello, magical world!"

This is the simplest of spells, but every great algorithm wizard starts somewhere!

    func helloWorld() string {
        // your spell here
    }
`,
		Difficulty:       challenge.Easy,
		Category:         challenge.Algorithm,
		XPReward:         10,
		TimeLimitSeconds: 60,
		Area:             AlgorithmForest,
		Entrypoint:       "helloWorld",
		ProblemType:      "basics",
		Template:         "func helloWorld() string {\n\treturn \"\"\n}\n",
		Hints: []string{
			"Your function should be named 'helloWorld' and take no parameters.",
			"To return a string, use the return keyword followed by the string in double quotes.",
			"The exact string to return is: \"Hello, magical world!\"",
			"Make sure to include the exclamation mark!",
		},
		Solution: `func helloWorld() string {
	return "Hello, magical world!"
}
`,
		Cases: []verify.TestCase{
			verify.FunctionalCase{Input: verify.Named(nil), Expected: "Hello, magical world!"},
		},
		Feedback: verify.Extra{
			OnSuccess: []string{
				"Congratulations on completing your first challenge!",
				"This is the beginning of your journey. You'll tackle more complex challenges as you progress.",
			},
			OnFailure: []string{
				"Don't worry if you didn't get it right the first time. Coding is all about learning from mistakes.",
				"Check that your function is named exactly 'helloWorld' and returns the exact string \"Hello, magical world!\"",
			},
		},
	}
}

func sumOfTwo() challenge.Definition {
	return challenge.Definition{
		ID:   "sum-of-two",
		Name: "The Addition Spell",
		Description: `At the entrance to the Algorithm Forest, a friendly sprite challenges you
with a simple task.

"Write a function called **sumOfTwo** that takes two numbers and returns their
sum," the sprite explains.

Step by step:
1. Declare a function named sumOfTwo with two int parameters, a and b
2. Inside the function, add the two numbers together
3. Return the result

Example: a = 5, b = 3 returns 8.

    func sumOfTwo(a, b int) int {
        // your code here
    }
`,
		Difficulty:       challenge.Easy,
		Category:         challenge.Algorithm,
		XPReward:         20,
		TimeLimitSeconds: 60,
		Area:             AlgorithmForest,
		Entrypoint:       "sumOfTwo",
		ProblemType:      "basics",
		Template:         "func sumOfTwo(a, b int) int {\n\treturn 0\n}\n",
		Hints: []string{
			"To add two numbers in Go, use the + operator: a + b",
			"The return statement sends a value back from your function: return result",
			"Your entire solution could be just one line!",
			"The solution is: return a + b",
		},
		Solution: `func sumOfTwo(a, b int) int {
	return a + b
}
`,
		Cases: []verify.TestCase{
			verify.FunctionalCase{Input: verify.Named(map[string]any{"a": 5, "b": 3}), Expected: 8},
			verify.FunctionalCase{Input: verify.Named(map[string]any{"a": 10, "b": -5}), Expected: 5},
			verify.FunctionalCase{Input: verify.Named(map[string]any{"a": 0, "b": 0}), Expected: 0},
		},
		Feedback: verify.Extra{
			OnSuccess: []string{
				"Great job! You've mastered the addition spell.",
				"Let's understand what your code did:",
				"1. You declared a function that takes two parameters (a and b)",
				"2. You added them together with the + operator",
				"3. You returned the result to the caller",
				"This pattern of taking inputs, processing them, and returning a result is the foundation of most functions you'll write!",
			},
		},
	}
}

func twoSum() challenge.Definition {
	named := func(nums []any, target int) verify.Args {
		return verify.Named(map[string]any{"nums": nums, "target": target})
	}
	return challenge.Definition{
		ID:   "two-sum",
		Name: "The Twin Sum Riddle",
		Description: `In the mystical Algorithm Forest, you encounter a peculiar puzzle guarded
by a wise old owl.

"Find the two numbers in this array that sum to the target value," hoots the
owl. "Return their indices, and you may pass through to your next challenge."

Write a function called **twoSum** that accepts:
- nums ([]int): a list of integers
- target (int): the target sum

It returns the indices of the two numbers that add up to the target.

You may assume:
- each input has exactly one solution
- you may not use the same element twice
- the answer can be returned in any order

Example: nums = [2, 7, 11, 15], target = 9 returns [0, 1] because
nums[0] + nums[1] = 2 + 7 = 9.
`,
		Difficulty:       challenge.Easy,
		Category:         challenge.Algorithm,
		XPReward:         50,
		TimeLimitSeconds: 30,
		Area:             AlgorithmForest,
		PrimarySkill:     "arrays",
		Entrypoint:       "twoSum",
		ProblemType:      "array",
		Template:         "func twoSum(nums []int, target int) []int {\n\treturn nil\n}\n",
		Complexity:       verify.Complexity{Time: "O(n)", Space: "O(n)"},
		Hints: []string{
			"Try the simplest approach first: check every pair of numbers in the array.",
			"Can you use a data structure to reduce the number of comparisons needed?",
			"Consider using a map to store numbers you've seen before.",
		},
		Solution: `func twoSum(nums []int, target int) []int {
	seen := make(map[int]int)
	for i, n := range nums {
		if j, ok := seen[target-n]; ok {
			return []int{j, i}
		}
		seen[n] = i
	}
	return nil
}
`,
		Cases: []verify.TestCase{
			verify.FunctionalCase{Input: named([]any{2, 7, 11, 15}, 9), Expected: []any{0, 1}},
			verify.FunctionalCase{Input: named([]any{3, 2, 4}, 6), Expected: []any{1, 2}},
			verify.FunctionalCase{Input: named([]any{3, 3}, 6), Expected: []any{0, 1}},
			verify.FunctionalCase{Input: named([]any{1, 2, 3, 4, 5}, 9), Expected: []any{3, 4}},
			verify.FunctionalCase{Input: named([]any{-1, -2, -3, -4, -5}, -8), Expected: []any{2, 4}},
		},
	}
}

func binarySearch() challenge.Definition {
	arr := []any{1, 3, 5, 7, 9}
	named := func(target int) verify.Args {
		return verify.Named(map[string]any{"arr": arr, "target": target})
	}
	return challenge.Definition{
		ID:   "binary-search",
		Name: "The Ancient Tome Search",
		Description: `In the Algorithm Forest, you come across an ancient library guarded by a
sphinx.

"To pass, you must find a specific tome in this vast collection," says the
sphinx. "But you must use the ancient technique of binary search to find it
quickly."

Write a function called **binarySearch** that accepts:
- arr ([]int): a sorted slice of integers
- target (int): the value to search for

It returns the index of the target if found, or -1 if not found.

Example: arr = [1, 3, 5, 7, 9], target = 5 returns 2.
`,
		Difficulty:       challenge.Easy,
		Category:         challenge.Algorithm,
		XPReward:         50,
		TimeLimitSeconds: 30,
		Area:             AlgorithmForest,
		PrimarySkill:     "searching",
		Entrypoint:       "binarySearch",
		ProblemType:      "search",
		Template:         "func binarySearch(arr []int, target int) int {\n\treturn -1\n}\n",
		Complexity:       verify.Complexity{Time: "O(log n)", Space: "O(1)"},
		Hints: []string{
			"Remember that binary search only works on sorted arrays.",
			"Start by defining the search space with left and right pointers.",
			"Calculate the middle index and compare the middle element with the target.",
			"If the middle element is the target, return its index.",
			"If the target is less than the middle element, search the left half.",
			"If the target is greater than the middle element, search the right half.",
		},
		Solution: `func binarySearch(arr []int, target int) int {
	left, right := 0, len(arr)-1
	for left <= right {
		mid := left + (right-left)/2
		switch {
		case arr[mid] == target:
			return mid
		case arr[mid] < target:
			left = mid + 1
		default:
			right = mid - 1
		}
	}
	return -1
}
`,
		Cases: []verify.TestCase{
			verify.FunctionalCase{Input: named(5), Expected: 2},
			verify.FunctionalCase{Input: named(9), Expected: 4},
			verify.FunctionalCase{Input: named(1), Expected: 0},
			verify.FunctionalCase{Input: named(4), Expected: -1},
			verify.FunctionalCase{Input: named(10), Expected: -1},
		},
	}
}
