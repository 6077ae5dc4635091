package spirv

import nagaspirv "github.com/gogpu/naga/spirv"

var opcodeNames = map[nagaspirv.OpCode]string{
	0: "OpNop", 1: "OpUndef", 3: "OpSource", 4: "OpSourceExtension",
	5: "OpName", 6: "OpMemberName", 7: "OpString", 10: "OpExtension",
	11: "OpExtInstImport", 12: "OpExtInst", 14: "OpMemoryModel",
	15: "OpEntryPoint", 16: "OpExecutionMode", 17: "OpCapability",
	19: "OpTypeVoid", 20: "OpTypeBool", 21: "OpTypeInt", 22: "OpTypeFloat",
	23: "OpTypeVector", 24: "OpTypeMatrix", 25: "OpTypeImage",
	26: "OpTypeSampler", 27: "OpTypeSampledImage", 28: "OpTypeArray",
	29: "OpTypeRuntimeArray", 30: "OpTypeStruct", 32: "OpTypePointer",
	33: "OpTypeFunction", 43: "OpConstant", 44: "OpConstantComposite",
	54: "OpFunction", 55: "OpFunctionParameter", 56: "OpFunctionEnd",
	57: "OpFunctionCall", 59: "OpVariable", 61: "OpLoad", 62: "OpStore",
	65: "OpAccessChain", 71: "OpDecorate", 72: "OpMemberDecorate",
	248: "OpLabel", 249: "OpBranch", 250: "OpBranchConditional",
	253: "OpReturn", 254: "OpReturnValue",
}

var capabilityNames = map[uint32]string{
	0: "Matrix", 1: "Shader", 2: "Geometry", 3: "Tessellation",
	4: "Addresses", 5: "Linkage", 6: "Kernel", 7: "Vector16",
	8: "Float16Buffer", 9: "Float16", 10: "Float64", 11: "Int64",
	12: "Int64Atomics", 13: "ImageBasic", 14: "ImageReadWrite", 15: "ImageMipmap",
	17: "Pipes", 18: "Groups", 19: "DeviceEnqueue", 20: "LiteralSampler",
	21: "AtomicStorage", 22: "Int16", 23: "TessellationPointSize",
	24: "GeometryPointSize", 25: "ImageGatherExtended", 26: "StorageImageMultisample",
	27: "UniformBufferArrayDynamicIndexing", 28: "SampledImageArrayDynamicIndexing",
	29: "StorageBufferArrayDynamicIndexing", 30: "StorageImageArrayDynamicIndexing",
	31: "ClipDistance", 32: "CullDistance", 33: "ImageCubeArray",
	34: "SampleRateShading", 35: "ImageRect", 36: "SampledRect",
	37: "GenericPointer", 38: "Int8", 39: "InputAttachment",
	40: "SparseResidency", 41: "MinLod", 42: "Sampled1D", 43: "Image1D",
	44: "SampledCubeArray", 45: "SampledBuffer", 46: "ImageBuffer",
	47: "ImageMSArray", 48: "StorageImageExtendedFormats",
	49: "ImageQuery", 50: "DerivativeControl", 51: "InterpolationFunction",
	52: "TransformFeedback", 53: "GeometryStreams", 54: "StorageImageReadWithoutFormat",
	55: "StorageImageWriteWithoutFormat", 56: "MultiViewport",
	60: "GroupNonUniform", 61: "GroupNonUniformVote", 62: "GroupNonUniformArithmetic",
	63: "GroupNonUniformBallot", 64: "GroupNonUniformShuffle",
	4427: "DrawParameters", 4437: "StorageBuffer16BitAccess",
	4442: "MultiView", 4446: "VariablePointers",
	5013: "ShaderNonUniform", 5015: "RuntimeDescriptorArray",
}

var executionModelNames = map[uint32]string{
	0: "Vertex", 1: "TessellationControl", 2: "TessellationEvaluation",
	3: "Geometry", 4: "Fragment", 5: "GLCompute", 6: "Kernel",
}
