package romtag

// Tag subsystems.
const (
	RT_SUBSYS_RSANODE uint8 = 0x0F
	RT_SUBSYS_ROM     uint8 = 0x10
)

// Types of the RSA node subsystem.
const (
	RSA_MUST_RSA          uint8 = 0x01
	RSA_BLOCKS_ALWAYS     uint8 = 0x02
	RSA_BLOCKS_SOMETIMES  uint8 = 0x03
	RSA_BLOCKS_RANDOM     uint8 = 0x04
	RSA_SIGNATURE_BLOCK   uint8 = 0x05
	RSA_BOOT              uint8 = 0x06
	RSA_OS                uint8 = 0x07
	RSA_CDINFO            uint8 = 0x08
	RSA_NEWBOOT           uint8 = 0x09
	RSA_NEWNEWBOOT        uint8 = 0x0A
	RSA_NEWNEWGNUBOOT     uint8 = 0x0B
	RSA_BILLSTUFF         uint8 = 0x0C
	RSA_NEWKNEWNEWGNUBOOT uint8 = 0x0D
	RSA_OLD_MISCCODE      uint8 = 0x0F
	RSA_MISCCODE          uint8 = 0x10
	RSA_APP               uint8 = 0x11
	RSA_DRIVER            uint8 = 0x12
	RSA_DEVDIPIR          uint8 = 0x13
	RSA_APPSPLASH         uint8 = 0x14
	RSA_DEPOTCONFIG       uint8 = 0x15
	RSA_DEVICE_INFO       uint8 = 0x16
	RSA_DEV_PERMS         uint8 = 0x17
	RSA_BOOT_OVERLAY      uint8 = 0x18
	RSA_M2_OS             uint8 = 0x19
	RSA_M2_MISCCODE       uint8 = 0x1A
	RSA_M2_DRIVER         uint8 = 0x1B
	RSA_M2_DEVDIPIR       uint8 = 0x1C
	RSA_M2_APPBANNER      uint8 = 0x1D
	RSA_M2_APP_KEYS       uint8 = 0x1E
	RSA_OPERA_CD_IMAGE    uint8 = 0x1F
	RSA_M2_ICON           uint8 = 0x20
)

// Types of the ROM subsystem.
const (
	ROM_DIAGNOSTICS   uint8 = 0x10
	ROM_DIAG_LOADER   uint8 = 0x11
	ROM_VER_STRING    uint8 = 0x12
	ROM_DIPIR         uint8 = 0x20
	ROM_DIPIR_DRIVERS uint8 = 0x21
	ROM_KERNEL_ROM    uint8 = 0x30
	ROM_KERNEL_CD     uint8 = 0x31
	ROM_OPERATOR      uint8 = 0x32
	ROM_FS            uint8 = 0x33
	ROM_SYSINFO       uint8 = 0x40
	ROM_FS_IMAGE      uint8 = 0x41
	ROM_PLATFORM_ID   uint8 = 0x42
	ROM_ROM2_BASE     uint8 = 0x43
)

var rsaNames = map[uint8]string{
	RSA_MUST_RSA:          "MUST_RSA",
	RSA_BLOCKS_ALWAYS:     "BLOCKS_ALWAYS",
	RSA_BLOCKS_SOMETIMES:  "BLOCKS_SOMETIMES",
	RSA_BLOCKS_RANDOM:     "BLOCKS_RANDOM",
	RSA_SIGNATURE_BLOCK:   "SIGNATURE_BLOCK",
	RSA_BOOT:              "BOOT",
	RSA_OS:                "OS",
	RSA_CDINFO:            "CDINFO",
	RSA_NEWBOOT:           "NEWBOOT",
	RSA_NEWNEWBOOT:        "NEWNEWBOOT",
	RSA_NEWNEWGNUBOOT:     "NEWNEWGNUBOOT",
	RSA_BILLSTUFF:         "BILLSTUFF",
	RSA_NEWKNEWNEWGNUBOOT: "NEWKNEWNEWGNUBOOT",
	RSA_OLD_MISCCODE:      "OLD_MISCCODE",
	RSA_MISCCODE:          "MISCCODE",
	RSA_APP:               "APP",
	RSA_DRIVER:            "DRIVER",
	RSA_DEVDIPIR:          "DEVDIPIR",
	RSA_APPSPLASH:         "APPSPLASH",
	RSA_DEPOTCONFIG:       "DEPOTCONFIG",
	RSA_DEVICE_INFO:       "DEVICE_INFO",
	RSA_DEV_PERMS:         "DEV_PERMS",
	RSA_BOOT_OVERLAY:      "BOOT_OVERLAY",
	RSA_M2_OS:             "M2_OS",
	RSA_M2_MISCCODE:       "M2_MISCCODE",
	RSA_M2_DRIVER:         "M2_DRIVER",
	RSA_M2_DEVDIPIR:       "M2_DEVDIPIR",
	RSA_M2_APPBANNER:      "M2_APPBANNER",
	RSA_M2_APP_KEYS:       "M2_APP_KEYS",
	RSA_OPERA_CD_IMAGE:    "OPERA_CD_IMAGE",
	RSA_M2_ICON:           "M2_ICON",
}

var romNames = map[uint8]string{
	ROM_DIAGNOSTICS:   "DIAGNOSTICS",
	ROM_DIAG_LOADER:   "DIAG_LOADER",
	ROM_VER_STRING:    "VER_STRING",
	ROM_DIPIR:         "DIPIR",
	ROM_DIPIR_DRIVERS: "DIPIR_DRIVERS",
	ROM_KERNEL_ROM:    "KERNEL_ROM",
	ROM_KERNEL_CD:     "KERNEL_CD",
	ROM_OPERATOR:      "OPERATOR",
	ROM_FS:            "FS",
	ROM_SYSINFO:       "SYSINFO",
	ROM_FS_IMAGE:      "FS_IMAGE",
	ROM_PLATFORM_ID:   "PLATFORM_ID",
	ROM_ROM2_BASE:     "ROM2_BASE",
}
