package glm

import "unsafe"

// Mat4 is a column major 4x4 matrix, the memory layout expected by shaders.
type Mat4[T numeric] [16]T

// Orthographic maps the box [left, right] x [bottom, top] x [near, far]
// to normalized device coordinates in [-1, 1] on every axis.
func Orthographic[T float](left, right, bottom, top, near, far T) Mat4[T] {
	return Mat4[T]{
		2 / (right - left), 0, 0, 0,
		0, 2 / (top - bottom), 0, 0,
		0, 0, -2 / (far - near), 0,
		-(right + left) / (right - left),
		-(top + bottom) / (top - bottom),
		-(far + near) / (far - near),
		1,
	}
}

// Transform applies the matrix to a point. Only used to check where a
// projection maps pixel coordinates.
func (lhs Mat4[T]) Transform(rhs Vec4[T]) Vec4[T] {
	return Vec4[T]{
		lhs[0]*rhs[0] + lhs[4]*rhs[1] + lhs[8]*rhs[2] + lhs[12]*rhs[3],
		lhs[1]*rhs[0] + lhs[5]*rhs[1] + lhs[9]*rhs[2] + lhs[13]*rhs[3],
		lhs[2]*rhs[0] + lhs[6]*rhs[1] + lhs[10]*rhs[2] + lhs[14]*rhs[3],
		lhs[3]*rhs[0] + lhs[7]*rhs[1] + lhs[11]*rhs[2] + lhs[15]*rhs[3],
	}
}

// Bytes returns the raw memory of the matrix, ready to be written into a
// uniform buffer.
func (lhs *Mat4[T]) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(lhs)), unsafe.Sizeof(*lhs))
}
