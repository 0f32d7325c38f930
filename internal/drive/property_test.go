package drive

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// randomForest builds a forest from seeds: entry i hangs off the root or
// off one of the entries before it, so parent links never loop.
func randomForest(seeds []int) *Collection {
	entries := make([]Entry, 0, len(seeds))
	for i, s := range seeds {
		id := fmt.Sprintf("e%d", i)
		parent := RootID
		if i > 0 && s%4 != 0 {
			parent = fmt.Sprintf("e%d", s%i)
		}
		if s%3 == 0 {
			entries = append(entries, NewFile(id, parent, fmt.Sprintf("file%d.txt", i), int64(s), testDay))
		} else {
			entries = append(entries, NewFolder(id, parent, fmt.Sprintf("folder%d", i), testDay))
		}
	}
	return NewCollection(entries)
}

func forestParams() *gopter.TestParameters {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	return parameters
}

func seedsGen() gopter.Gen {
	return gen.SliceOfN(30, gen.IntRange(0, 1000)).SuchThat(func(v []int) bool { return len(v) > 0 })
}

// 任意条目的路径从根开始，以条目本身结束
func TestProperty_PathToEndsAtEntry(t *testing.T) {
	properties := gopter.NewProperties(forestParams())

	properties.Property("path starts at root and ends at the entry", prop.ForAll(
		func(seeds []int, pick int) bool {
			c := randomForest(seeds)
			target := fmt.Sprintf("e%d", pick%len(seeds))
			path, err := PathTo(c, target)
			if err != nil {
				t.Logf("PathTo(%s): %v", target, err)
				return false
			}
			return path[0] == RootCrumb(ModeDrive) && path[len(path)-1].ID == target
		},
		seedsGen(),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}

// 软删除后立即恢复，被清除的集合等于删除时的子树
func TestProperty_SoftDeleteRestoreRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(forestParams())

	properties.Property("restore clears exactly the deleted subtree", prop.ForAll(
		func(seeds []int, pick int) bool {
			ed, _ := testEditor()
			c := randomForest(seeds)
			target := fmt.Sprintf("e%d", pick%len(seeds))
			subtree := c.Subtree(target)

			deleted := ed.SoftDelete(c, target)
			restored := ed.Restore(deleted, target)

			cleared := map[string]bool{}
			for _, e := range restored.Entries() {
				before, _ := deleted.Get(e.ID)
				if before.IsTrashed() && !e.IsTrashed() {
					cleared[e.ID] = true
				}
			}
			if len(cleared) != len(subtree) {
				return false
			}
			for _, id := range subtree {
				if !cleared[id] {
					return false
				}
			}
			return reflect.DeepEqual(c.Entries(), restored.Entries())
		},
		seedsGen(),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}

// 永久删除只移除子树，其余条目保持不变
func TestProperty_PermanentlyDeleteRemovesSubtreeOnly(t *testing.T) {
	properties := gopter.NewProperties(forestParams())

	properties.Property("other entries are unchanged", prop.ForAll(
		func(seeds []int, pick int) bool {
			ed, _ := testEditor()
			c := randomForest(seeds)
			target := fmt.Sprintf("e%d", pick%len(seeds))
			removed := map[string]bool{}
			for _, id := range c.Subtree(target) {
				removed[id] = true
			}

			next := ed.PermanentlyDelete(c, target)
			if next.Len() != c.Len()-len(removed) {
				return false
			}
			for _, e := range c.Entries() {
				got, ok := next.Get(e.ID)
				if removed[e.ID] == ok {
					return false
				}
				if ok && !reflect.DeepEqual(e, got) {
					return false
				}
			}
			return true
		},
		seedsGen(),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}

// 清空回收站是幂等的
func TestProperty_ClearTrashIdempotent(t *testing.T) {
	properties := gopter.NewProperties(forestParams())

	properties.Property("second clear changes nothing", prop.ForAll(
		func(seeds []int, picks []int) bool {
			ed, _ := testEditor()
			c := randomForest(seeds)
			for _, p := range picks {
				c = ed.SoftDelete(c, fmt.Sprintf("e%d", p%len(seeds)))
			}
			once := ed.ClearTrash(c)
			twice := ed.ClearTrash(once)
			return reflect.DeepEqual(once.Entries(), twice.Entries()) &&
				len(Resolve(once, Query{Mode: ModeTrash})) == 0
		},
		seedsGen(),
		gen.SliceOfN(5, gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}
