package recast

import "unsafe"

// sameBackingArray reports whether two uint16 slices are views over the
// same underlying array, by comparing the address of their first element.
// Used to detect aliasing between a polygon's vertex slice and a
// previously seen one without an element-by-element compare.
func sameBackingArray(a, b []uint16) bool {
	return uintptr(unsafe.Pointer(&a[0])) == uintptr(unsafe.Pointer(&b[0]))
}
