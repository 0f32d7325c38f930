package convert

import (
	"github.com/bytedance/sonic"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

// StructAssign copies the same-named fields of src into dst.
// 它会把 src 与 dst 的相同字段名的值，复制到 dst 中
func StructAssign(src any, dst any) error {
	if err := copier.CopyWithOption(dst, src, copier.Option{DeepCopy: true}); err != nil {
		return errors.Wrap(err, "convert.StructAssign")
	}
	return nil
}

// StructToMap 结构体转 map，字段名以 json 标签为准
func StructToMap(param any) (map[string]any, error) {
	raw, err := sonic.Marshal(param)
	if err != nil {
		return nil, errors.Wrap(err, "convert.StructToMap marshal")
	}
	data := make(map[string]any)
	if err := sonic.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrap(err, "convert.StructToMap unmarshal")
	}
	return data, nil
}
