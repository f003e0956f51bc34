// SPDX-License-Identifier: EPL-2.0

package tables

import "testing"

func TestPanTable_MirrorSymmetry(t *testing.T) {
	t.Parallel()

	pt := NewPanTable()
	for angle := range PanPositions {
		mirror := Mirror(angle)
		for distance := range Levels {
			a := pt[angle][distance]
			m := pt[mirror][distance]
			if a.Left != m.Right || a.Right != m.Left {
				t.Fatalf("angle %d/%d distance %d: %+v vs %+v", angle, mirror, distance, a, m)
			}
		}
	}
}

func TestPanTable_FrontIsCentered(t *testing.T) {
	t.Parallel()

	pt := NewPanTable()
	for _, angle := range []int{0, PanPositions / 2} {
		p := pt.Lookup(angle, 0)
		if p.Left != 255 || p.Right != 255 {
			t.Errorf("Lookup(%d, 0) = %+v, want {255 255}", angle, p)
		}
	}
}

func TestPanTable_HardSides(t *testing.T) {
	t.Parallel()

	pt := NewPanTable()

	right := pt.Lookup(PanPositions/4, 0)
	if right.Left != 0 || right.Right != 255 {
		t.Errorf("hard right = %+v, want {0 255}", right)
	}

	left := pt.Lookup(3*PanPositions/4, 0)
	if left.Left != 255 || left.Right != 0 {
		t.Errorf("hard left = %+v, want {255 0}", left)
	}
}

func TestPanTable_DistanceAttenuates(t *testing.T) {
	t.Parallel()

	pt := NewPanTable()
	for angle := range PanPositions {
		prev := pt[angle][0]
		for distance := 1; distance < Levels; distance++ {
			cur := pt[angle][distance]
			if cur.Left > prev.Left || cur.Right > prev.Right {
				t.Fatalf("angle %d: gain rose from %+v to %+v at distance %d", angle, prev, cur, distance)
			}
			prev = cur
		}
		if far := pt[angle][MaxVolume]; far.Left != 0 || far.Right != 0 {
			t.Errorf("angle %d at max distance = %+v, want silence", angle, far)
		}
	}
}

func TestPanTable_LookupWraps(t *testing.T) {
	t.Parallel()

	pt := NewPanTable()
	if pt.Lookup(PanPositions+3, 10) != pt.Lookup(3, 10) {
		t.Error("Lookup did not wrap the angle")
	}
	if pt.Lookup(3, 500) != pt.Lookup(3, MaxVolume) {
		t.Error("Lookup did not clamp the distance")
	}
}
